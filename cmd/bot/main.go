package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"clubbot/internal/adapters/telegram"
	"clubbot/internal/application"
	"clubbot/internal/auth"
	"clubbot/internal/config"
	"clubbot/internal/infrastructure/database"
	"clubbot/internal/infrastructure/i18n"
	"clubbot/internal/scene"
	"clubbot/internal/scenes"
	"clubbot/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Erreur de configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatalf("❌ Erreur lors des migrations: %v", err)
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Erreur lors de l'initialisation de la base de données: %v", err)
	}
	defer pool.Close()

	eventRepo := database.NewEventRepository(pool)
	participationRepo := database.NewParticipationRepository(pool)
	memberRepo := database.NewMemberRepository(pool)
	paymentDetailsRepo := database.NewPaymentDetailsRepository(pool)
	clubInfoRepo := database.NewClubInfoRepository(pool)

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		log.Fatalf("❌ Erreur lors de la création de la session Telegram: %v", err)
	}

	translator := i18n.NewTranslator(cfg.DefaultLocale)
	sender := telegram.NewSender(api)
	reminders := application.NewReminderScheduler(cfg.PaymentReminderDelay)
	defer reminders.Stop()

	eventUC := application.NewEventService(eventRepo)
	participationUC := application.NewParticipationService(
		participationRepo, eventRepo, memberRepo,
		sender, translator, reminders,
		cfg.AdminIDs, cfg.DefaultLocale,
		logger.WithComponent("participation"),
	)
	contentUC := application.NewContentService(paymentDetailsRepo, clubInfoRepo)

	engine := scene.NewEngine(logger.WithComponent("scene"))
	scenes.New(scenes.Config{
		Engine:              engine,
		Events:              eventUC,
		Participation:       participationUC,
		Content:             contentUC,
		Chat:                sender,
		Translator:          translator,
		Auth:                auth.NewChecker(cfg.AdminIDs),
		DeleteConfirmPhrase: cfg.DeleteConfirmPhrase,
		Log:                 logger.WithComponent("scenes"),
	}).Register()

	bot := telegram.NewBot(api, engine, logger.WithComponent("telegram"))
	if err := bot.Start(ctx); err != nil && err != context.Canceled {
		log.Printf("❌ Erreur lors du démarrage du bot: %v", err)
		os.Exit(1)
	}
}
