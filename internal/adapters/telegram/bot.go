package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"clubbot/internal/scene"
)

// Bot is the Telegram adapter: it pulls updates off the long-poll channel
// and feeds them to the scene engine.
//
// Updates are fanned out to one queue per user so that a slow dialog step
// never blocks other users, while each user's own updates keep their
// arrival order.
type Bot struct {
	api    *tgbotapi.BotAPI
	engine *scene.Engine
	log    *zap.Logger

	mu     sync.Mutex
	queues map[int64]chan scene.Update
	wg     sync.WaitGroup
}

const userQueueSize = 16

func NewBot(api *tgbotapi.BotAPI, engine *scene.Engine, log *zap.Logger) *Bot {
	return &Bot{
		api:    api,
		engine: engine,
		log:    log,
		queues: make(map[int64]chan scene.Update),
	}
}

// Start long-polls Telegram until ctx is cancelled, then drains the per-user
// queues before returning.
func (b *Bot) Start(ctx context.Context) error {
	b.registerCommands()

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	b.log.Info("bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.closeQueues()
			b.wg.Wait()
			return ctx.Err()

		case raw, ok := <-updates:
			if !ok {
				b.closeQueues()
				b.wg.Wait()
				return nil
			}
			upd, handled := convert(raw)
			if !handled {
				continue
			}
			b.enqueue(ctx, upd)
		}
	}
}

func (b *Bot) enqueue(ctx context.Context, upd scene.Update) {
	b.mu.Lock()
	q, ok := b.queues[upd.User.ID]
	if !ok {
		q = make(chan scene.Update, userQueueSize)
		b.queues[upd.User.ID] = q
		b.wg.Add(1)
		go b.worker(ctx, q)
	}
	b.mu.Unlock()

	select {
	case q <- upd:
	default:
		// The user is flooding faster than their dialog steps complete.
		b.log.Warn("user queue full, dropping update", zap.Int64("user", upd.User.ID))
	}
}

func (b *Bot) worker(ctx context.Context, q chan scene.Update) {
	defer b.wg.Done()
	for upd := range q {
		b.engine.Dispatch(ctx, upd)
	}
}

func (b *Bot) closeQueues() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, q := range b.queues {
		close(q)
		delete(b.queues, id)
	}
}

func (b *Bot) registerCommands() {
	cmds := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "events", Description: "Upcoming events"},
		tgbotapi.BotCommand{Command: "past", Description: "Past events"},
		tgbotapi.BotCommand{Command: "myevents", Description: "My sign-ups"},
		tgbotapi.BotCommand{Command: "info", Description: "About the club"},
		tgbotapi.BotCommand{Command: "cancel", Description: "Abort the current dialog"},
		tgbotapi.BotCommand{Command: "help", Description: "Help"},
	)
	if _, err := b.api.Request(cmds); err != nil {
		b.log.Warn("set my commands failed", zap.Error(err))
	}
}
