package scenes_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"clubbot/internal/application"
	"clubbot/internal/auth"
	"clubbot/internal/domain"
	"clubbot/internal/domain/entities"
	"clubbot/internal/ports/output"
	"clubbot/internal/scene"
	"clubbot/internal/scenes"
)

// In-memory repositories backing the scene tests. They mirror the database
// adapters closely enough for dialog flows: auto-increment ids, draft-key
// idempotency, (event, member) uniqueness.

type memEventRepo struct {
	mu      sync.Mutex
	nextID  uint
	rows    map[uint]entities.Event
	byDraft map[string]uint
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{nextID: 1, rows: make(map[uint]entities.Event), byDraft: make(map[string]uint)}
}

func (r *memEventRepo) Create(ctx context.Context, e *entities.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byDraft[e.DraftKey.String()]; ok {
		existing := r.rows[id]
		*e = existing
		return nil
	}
	e.ID = r.nextID
	r.nextID++
	r.rows[e.ID] = *e
	r.byDraft[e.DraftKey.String()] = e.ID
	return nil
}

func (r *memEventRepo) FindByID(ctx context.Context, id uint) (*entities.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return &e, nil
}

func (r *memEventRepo) FindUpcoming(ctx context.Context, now time.Time) ([]entities.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Event
	for _, e := range r.rows {
		if e.IsPublished && !e.IsCancelled && e.StartDate != nil && e.StartDate.After(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEventRepo) FindPast(ctx context.Context, now time.Time) ([]entities.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Event
	for _, e := range r.rows {
		if e.IsPublished && e.StartDate != nil && e.StartDate.Before(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEventRepo) FindAll(ctx context.Context) ([]entities.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Event
	for _, e := range r.rows {
		out = append(out, e)
	}
	return out, nil
}

func (r *memEventRepo) Update(ctx context.Context, e *entities.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[e.ID]; !ok {
		return domain.ErrEventNotFound
	}
	r.rows[e.ID] = *e
	return nil
}

func (r *memEventRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(r.rows, id)
	return nil
}

type memParticipationRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]entities.Participation
}

func newMemParticipationRepo() *memParticipationRepo {
	return &memParticipationRepo{nextID: 1, rows: make(map[uint]entities.Participation)}
}

func (r *memParticipationRepo) Create(ctx context.Context, p *entities.Participation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	r.rows[p.ID] = *p
	return nil
}

func (r *memParticipationRepo) FindByID(ctx context.Context, id uint) (*entities.Participation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrParticipationNotFound
	}
	return &p, nil
}

func (r *memParticipationRepo) FindByEventAndMember(ctx context.Context, eventID, memberID uint) (*entities.Participation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.EventID == eventID && p.MemberID == memberID {
			row := p
			return &row, nil
		}
	}
	return nil, domain.ErrParticipationNotFound
}

func (r *memParticipationRepo) FindByEvent(ctx context.Context, eventID uint) ([]entities.Participation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Participation
	for _, p := range r.rows {
		if p.EventID == eventID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memParticipationRepo) FindByMember(ctx context.Context, memberID uint) ([]entities.Participation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Participation
	for _, p := range r.rows {
		if p.MemberID == memberID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memParticipationRepo) Update(ctx context.Context, p *entities.Participation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[p.ID]; !ok {
		return domain.ErrParticipationNotFound
	}
	r.rows[p.ID] = *p
	return nil
}

func (r *memParticipationRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrParticipationNotFound
	}
	delete(r.rows, id)
	return nil
}

type memMemberRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]entities.Member
}

func newMemMemberRepo() *memMemberRepo {
	return &memMemberRepo{nextID: 1, rows: make(map[uint]entities.Member)}
}

func (r *memMemberRepo) Upsert(ctx context.Context, m *entities.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, row := range r.rows {
		if row.TelegramID == m.TelegramID {
			m.ID = id
			r.rows[id] = *m
			return nil
		}
	}
	m.ID = r.nextID
	r.nextID++
	r.rows[m.ID] = *m
	return nil
}

func (r *memMemberRepo) FindByTelegramID(ctx context.Context, telegramID int64) (*entities.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.rows {
		if m.TelegramID == telegramID {
			row := m
			return &row, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (r *memMemberRepo) FindByID(ctx context.Context, id uint) (*entities.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	return &m, nil
}

type memPaymentDetailsRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]entities.PaymentDetails
}

func newMemPaymentDetailsRepo() *memPaymentDetailsRepo {
	return &memPaymentDetailsRepo{nextID: 1, rows: make(map[uint]entities.PaymentDetails)}
}

func (r *memPaymentDetailsRepo) Create(ctx context.Context, pd *entities.PaymentDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pd.ID = r.nextID
	r.nextID++
	r.rows[pd.ID] = *pd
	return nil
}

func (r *memPaymentDetailsRepo) FindByID(ctx context.Context, id uint) (*entities.PaymentDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pd, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrPaymentDetailsNotFound
	}
	return &pd, nil
}

func (r *memPaymentDetailsRepo) FindAll(ctx context.Context) ([]entities.PaymentDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.PaymentDetails
	for _, pd := range r.rows {
		out = append(out, pd)
	}
	return out, nil
}

func (r *memPaymentDetailsRepo) Update(ctx context.Context, pd *entities.PaymentDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[pd.ID]; !ok {
		return domain.ErrPaymentDetailsNotFound
	}
	r.rows[pd.ID] = *pd
	return nil
}

func (r *memPaymentDetailsRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrPaymentDetailsNotFound
	}
	delete(r.rows, id)
	return nil
}

type memClubInfoRepo struct {
	mu   sync.Mutex
	info *entities.ClubInfo
}

func (r *memClubInfoRepo) Latest(ctx context.Context) (*entities.ClubInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.info == nil {
		return nil, domain.ErrClubInfoNotFound
	}
	row := *r.info
	return &row, nil
}

func (r *memClubInfoRepo) Save(ctx context.Context, info *entities.ClubInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if info.ID == 0 {
		info.ID = 1
	}
	row := *info
	r.info = &row
	return nil
}

// recorderChat captures outbound messages per chat.
type recorderChat struct {
	mu   sync.Mutex
	sent []sentMessage
}

type sentMessage struct {
	ChatID  int64
	Text    string
	Buttons [][]output.Button
}

func (c *recorderChat) Reply(ctx context.Context, chatID int64, text string, rows ...[]output.Button) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentMessage{ChatID: chatID, Text: text, Buttons: rows})
	return nil
}

func (c *recorderChat) EditLast(ctx context.Context, chatID int64, text string, rows ...[]output.Button) error {
	return c.Reply(ctx, chatID, text, rows...)
}

func (c *recorderChat) AnswerCallback(ctx context.Context, callbackID, text string) error {
	return nil
}

func (c *recorderChat) last(chatID int64) *sentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.sent) - 1; i >= 0; i-- {
		if c.sent[i].ChatID == chatID {
			return &c.sent[i]
		}
	}
	return nil
}

func (c *recorderChat) contains(chatID int64, substr string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.sent {
		if m.ChatID == chatID && strings.Contains(m.Text, substr) {
			return true
		}
	}
	return false
}

// keyTranslator echoes the message key so assertions read against keys, not
// locale catalogs.
type keyTranslator struct{}

func (keyTranslator) T(locale, key string, data map[string]any) string {
	if len(data) == 0 {
		return key
	}
	return fmt.Sprintf("%s %v", key, data)
}

// harness is a fully wired bot without the transport: real engine, real
// services, in-memory storage.
type harness struct {
	engine  *scene.Engine
	chat    *recorderChat
	events  *memEventRepo
	parts   *memParticipationRepo
	members *memMemberRepo
	pd      *memPaymentDetailsRepo
	club    *memClubInfoRepo
}

const (
	adminID  int64 = 900
	memberID int64 = 42
)

func newHarness() *harness {
	log := zap.NewNop()
	h := &harness{
		engine:  scene.NewEngine(log),
		chat:    &recorderChat{},
		events:  newMemEventRepo(),
		parts:   newMemParticipationRepo(),
		members: newMemMemberRepo(),
		pd:      newMemPaymentDetailsRepo(),
		club:    &memClubInfoRepo{},
	}
	tr := keyTranslator{}
	reminders := application.NewReminderScheduler(10 * time.Millisecond)
	eventSvc := application.NewEventService(h.events)
	partSvc := application.NewParticipationService(
		h.parts, h.events, h.members, h.chat, tr, reminders, []int64{adminID}, "ru", log)
	contentSvc := application.NewContentService(h.pd, h.club)

	s := scenes.New(scenes.Config{
		Engine:              h.engine,
		Events:              eventSvc,
		Participation:       partSvc,
		Content:             contentSvc,
		Chat:                h.chat,
		Translator:          tr,
		Auth:                auth.NewChecker([]int64{adminID}),
		DeleteConfirmPhrase: "DELETE",
		Log:                 log,
	})
	s.Register()
	return h
}

func user(id int64) scene.User {
	return scene.User{ID: id, ChatID: id, Locale: "ru", FirstName: "U", Username: "u"}
}

func (h *harness) command(u scene.User, cmd string) {
	h.engine.Dispatch(context.Background(), scene.Update{User: u, Kind: scene.KindCommand, Command: cmd})
}

func (h *harness) text(u scene.User, text string) {
	h.engine.Dispatch(context.Background(), scene.Update{User: u, Kind: scene.KindText, Text: text})
}

func (h *harness) callback(u scene.User, action string) {
	h.engine.Dispatch(context.Background(), scene.Update{
		User: u, Kind: scene.KindCallback, Action: action, CallbackID: "cb",
	})
}
