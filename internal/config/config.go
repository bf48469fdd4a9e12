package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Token                string
	DatabaseURL          string
	MigrationsPath       string
	AdminIDs             []int64
	DeleteConfirmPhrase  string
	DefaultLocale        string
	PaymentReminderDelay time.Duration
}

// Load charge la configuration depuis les variables d'environnement et la valide.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env est optionnel lorsque les variables sont fournies par l'environnement (Docker, CI, etc.).
	}

	cfg := &Config{
		Token:               os.Getenv("BOT_TOKEN"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		MigrationsPath:      os.Getenv("MIGRATIONS_PATH"),
		DeleteConfirmPhrase: os.Getenv("DELETE_CONFIRM_PHRASE"),
		DefaultLocale:       os.Getenv("DEFAULT_LOCALE"),
	}

	for _, raw := range strings.Split(os.Getenv("ADMIN_IDS"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("config: ADMIN_IDS contient un id invalide (%q): %w", raw, err)
		}
		cfg.AdminIDs = append(cfg.AdminIDs, id)
	}

	cfg.PaymentReminderDelay = 2 * time.Hour
	if raw := os.Getenv("PAYMENT_REMINDER_DELAY"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("config: PAYMENT_REMINDER_DELAY invalide (%q)", raw)
		}
		cfg.PaymentReminderDelay = d
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate applique toutes les règles métier sur la configuration chargée.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("config: BOT_TOKEN est requis et ne peut pas être vide")
	}

	if len(c.AdminIDs) == 0 {
		return fmt.Errorf("config: ADMIN_IDS est requis (liste d'ids Telegram séparés par des virgules)")
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		// Valeur par défaut utile en local lorsque DATABASE_URL n'est pas fournie.
		c.DatabaseURL = "postgres://localhost:5432/clubbot?sslmode=disable"
	}

	parsed, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("config: DATABASE_URL invalide (%q): %w", c.DatabaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: DATABASE_URL invalide (%q): scheme ou host manquant", c.DatabaseURL)
	}

	if strings.TrimSpace(c.MigrationsPath) == "" {
		c.MigrationsPath = "migrations"
	}

	if strings.TrimSpace(c.DeleteConfirmPhrase) == "" {
		c.DeleteConfirmPhrase = "CONFIRM"
	}

	if strings.TrimSpace(c.DefaultLocale) == "" {
		c.DefaultLocale = "ru"
	}

	return nil
}
