// Package scenes wires the concrete club dialogs into the generic scene
// engine: event creation/editing for admins, the join and payment flow for
// members, plus the default command router for users with no active scene.
package scenes

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"clubbot/internal/auth"
	"clubbot/internal/domain"
	"clubbot/internal/ports/input"
	"clubbot/internal/ports/output"
	"clubbot/internal/scene"
)

// Scene ids.
const (
	SceneEventCreate    = "event_create"
	SceneEventEdit      = "event_edit"
	SceneEventDelete    = "event_delete"
	SceneJoin           = "join"
	ScenePaymentDetails = "payment_details"
	SceneClubInfo       = "club_info"
)

type Config struct {
	Engine              *scene.Engine
	Events              input.EventUseCase
	Participation       input.ParticipationUseCase
	Content             input.ContentUseCase
	Chat                output.Chat
	Translator          output.Translator
	Auth                *auth.Checker
	DeleteConfirmPhrase string
	Log                 *zap.Logger
	Now                 func() time.Time
}

type Scenes struct {
	engine        *scene.Engine
	events        input.EventUseCase
	parts         input.ParticipationUseCase
	content       input.ContentUseCase
	chat          output.Chat
	tr            output.Translator
	auth          *auth.Checker
	confirmPhrase string
	log           *zap.Logger
	now           func() time.Time
}

func New(cfg Config) *Scenes {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Scenes{
		engine:        cfg.Engine,
		events:        cfg.Events,
		parts:         cfg.Participation,
		content:       cfg.Content,
		chat:          cfg.Chat,
		tr:            cfg.Translator,
		auth:          cfg.Auth,
		confirmPhrase: cfg.DeleteConfirmPhrase,
		log:           cfg.Log,
		now:           now,
	}
}

// Register installs every scene, the fallback router and the error hooks on
// the engine.
func (s *Scenes) Register() {
	s.engine.Register(s.eventCreateScene())
	s.engine.Register(s.eventEditScene())
	s.engine.Register(s.eventDeleteScene())
	s.engine.Register(s.joinScene())
	s.engine.Register(s.paymentDetailsScene())
	s.engine.Register(s.clubInfoScene())
	s.engine.SetFallback(s.Fallback)
	s.engine.SetHooks(scene.Hooks{
		OnError:     s.onError,
		OnPanic:     s.onPanic,
		OnCancelled: s.onCancelled,
	})
}

// onError maps step failures onto the error taxonomy: vanished entities tear
// the scene down, everything else keeps the session so the step can be
// retried.
func (s *Scenes) onError(ctx context.Context, upd scene.Update, err error) bool {
	if verr, ok := domain.AsValidation(err); ok {
		s.reply(ctx, upd.User, verr.Key, nil)
		return false
	}
	if domain.IsNotFound(err) {
		s.reply(ctx, upd.User, "error.gone", nil)
		return true
	}
	s.reply(ctx, upd.User, "error.generic", nil)
	return false
}

func (s *Scenes) onPanic(ctx context.Context, upd scene.Update) {
	s.reply(ctx, upd.User, "error.generic", nil)
}

func (s *Scenes) onCancelled(ctx context.Context, upd scene.Update) {
	s.reply(ctx, upd.User, "scene.cancelled", nil)
}

func (s *Scenes) t(u scene.User, key string, data map[string]any) string {
	return s.tr.T(u.Locale, key, data)
}

func (s *Scenes) reply(ctx context.Context, u scene.User, key string, data map[string]any, rows ...[]output.Button) {
	if err := s.chat.Reply(ctx, u.ChatID, s.t(u, key, data), rows...); err != nil {
		s.log.Warn("reply failed", zap.Int64("chat", u.ChatID), zap.Error(err))
	}
}

func (s *Scenes) replyText(ctx context.Context, u scene.User, text string, rows ...[]output.Button) {
	if err := s.chat.Reply(ctx, u.ChatID, text, rows...); err != nil {
		s.log.Warn("reply failed", zap.Int64("chat", u.ChatID), zap.Error(err))
	}
}

// editLast rewrites the bot's previous message in place; menus use it so the
// chat does not fill up with stale copies.
func (s *Scenes) editLast(ctx context.Context, u scene.User, text string, rows ...[]output.Button) {
	if err := s.chat.EditLast(ctx, u.ChatID, text, rows...); err != nil {
		s.log.Warn("edit failed", zap.Int64("chat", u.ChatID), zap.Error(err))
	}
}

func (s *Scenes) answer(ctx context.Context, upd scene.Update, key string, data map[string]any) {
	if upd.Kind != scene.KindCallback {
		return
	}
	text := ""
	if key != "" {
		text = s.t(upd.User, key, data)
	}
	if err := s.chat.AnswerCallback(ctx, upd.CallbackID, text); err != nil {
		s.log.Warn("answer callback failed", zap.Error(err))
	}
}

// requireAdmin refuses with a denial reply when the user is not on the
// allow-list.
func (s *Scenes) requireAdmin(ctx context.Context, upd scene.Update) bool {
	if s.auth.IsAdmin(upd.User.ID) {
		return true
	}
	if upd.Kind == scene.KindCallback {
		s.answer(ctx, upd, "error.not_admin", nil)
	} else {
		s.reply(ctx, upd.User, "error.not_admin", nil)
	}
	return false
}

// textOf extracts trimmed free text from an update.
func textOf(upd scene.Update) (string, bool) {
	if upd.Kind != scene.KindText {
		return "", false
	}
	text := strings.TrimSpace(upd.Text)
	if text == "" {
		return "", false
	}
	return text, true
}

// splitAction splits a "verb:arg" callback payload.
func splitAction(action string) (string, string) {
	verb, arg, _ := strings.Cut(action, ":")
	return verb, arg
}

func parseID(arg string) (uint, bool) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func btn(label, action string) output.Button {
	return output.Button{Label: label, Action: action}
}
