package application_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"clubbot/internal/domain"
	"clubbot/internal/domain/entities"
	"clubbot/internal/ports/output"
)

// In-memory repositories backing the service tests.

type fakeEventRepo struct {
	mu      sync.Mutex
	seq     uint
	events  map[uint]entities.Event
	byDraft map[uuid.UUID]uint
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:  make(map[uint]entities.Event),
		byDraft: make(map[uuid.UUID]uint),
	}
}

func (r *fakeEventRepo) Create(ctx context.Context, event *entities.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byDraft[event.DraftKey]; ok {
		existing := r.events[id]
		*event = existing
		return nil
	}
	r.seq++
	event.ID = r.seq
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	r.events[event.ID] = *event
	r.byDraft[event.DraftKey] = event.ID
	return nil
}

func (r *fakeEventRepo) FindByID(ctx context.Context, id uint) (*entities.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return &e, nil
}

func (r *fakeEventRepo) FindUpcoming(ctx context.Context, now time.Time) ([]entities.Event, error) {
	return r.filter(func(e entities.Event) bool {
		return e.IsPublished && !e.IsCancelled && e.StartDate != nil && e.StartDate.After(now)
	}), nil
}

func (r *fakeEventRepo) FindPast(ctx context.Context, now time.Time) ([]entities.Event, error) {
	return r.filter(func(e entities.Event) bool {
		return e.IsPublished && e.StartDate != nil && e.StartDate.Before(now)
	}), nil
}

func (r *fakeEventRepo) FindAll(ctx context.Context) ([]entities.Event, error) {
	return r.filter(func(entities.Event) bool { return true }), nil
}

func (r *fakeEventRepo) filter(keep func(entities.Event) bool) []entities.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Event
	for _, e := range r.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeEventRepo) Update(ctx context.Context, event *entities.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return domain.ErrEventNotFound
	}
	event.UpdatedAt = time.Now()
	r.events[event.ID] = *event
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

type fakeParticipationRepo struct {
	mu   sync.Mutex
	seq  uint
	rows map[uint]entities.Participation
}

func newFakeParticipationRepo() *fakeParticipationRepo {
	return &fakeParticipationRepo{rows: make(map[uint]entities.Participation)}
}

func (r *fakeParticipationRepo) Create(ctx context.Context, p *entities.Participation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.EventID == p.EventID && row.MemberID == p.MemberID {
			return errors.New("unique violation: participation exists")
		}
	}
	r.seq++
	p.ID = r.seq
	p.UpdatedAt = time.Now()
	r.rows[p.ID] = *p
	return nil
}

func (r *fakeParticipationRepo) FindByID(ctx context.Context, id uint) (*entities.Participation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrParticipationNotFound
	}
	return &p, nil
}

func (r *fakeParticipationRepo) FindByEventAndMember(ctx context.Context, eventID, memberID uint) (*entities.Participation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.EventID == eventID && p.MemberID == memberID {
			return &p, nil
		}
	}
	return nil, domain.ErrParticipationNotFound
}

func (r *fakeParticipationRepo) FindByEvent(ctx context.Context, eventID uint) ([]entities.Participation, error) {
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

func (r *fakeParticipationRepo) FindByMember(ctx context.Context, memberID uint) ([]entities.Participation, error) {
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

func (r *fakeParticipationRepo) Update(ctx context.Context, p *entities.Participation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[p.ID]; !ok {
		return domain.ErrParticipationNotFound
	}
	p.UpdatedAt = time.Now()
	r.rows[p.ID] = *p
	return nil
}

func (r *fakeParticipationRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrParticipationNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeParticipationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakeMemberRepo struct {
	mu      sync.Mutex
	seq     uint
	members map[uint]entities.Member
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[uint]entities.Member)}
}

func (r *fakeMemberRepo) Upsert(ctx context.Context, m *entities.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.members {
		if existing.TelegramID == m.TelegramID {
			m.ID = id
			m.CreatedAt = existing.CreatedAt
			r.members[id] = *m
			return nil
		}
	}
	r.seq++
	m.ID = r.seq
	m.CreatedAt = time.Now()
	r.members[m.ID] = *m
	return nil
}

func (r *fakeMemberRepo) FindByTelegramID(ctx context.Context, telegramID int64) (*entities.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.TelegramID == telegramID {
			return &m, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (r *fakeMemberRepo) FindByID(ctx context.Context, id uint) (*entities.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	return &m, nil
}

type sentMessage struct {
	ChatID  int64
	Text    string
	Buttons [][]output.Button
}

type fakeChat struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (c *fakeChat) Reply(ctx context.Context, chatID int64, text string, rows ...[]output.Button) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentMessage{ChatID: chatID, Text: text, Buttons: rows})
	return nil
}

func (c *fakeChat) EditLast(ctx context.Context, chatID int64, text string, rows ...[]output.Button) error {
	return c.Reply(ctx, chatID, text, rows...)
}

func (c *fakeChat) AnswerCallback(ctx context.Context, callbackID, text string) error {
	return nil
}

func (c *fakeChat) messagesFor(chatID int64) []sentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []sentMessage
	for _, m := range c.sent {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

// keyTranslator renders messages as their keys, enough to assert routing.
type keyTranslator struct{}

func (keyTranslator) T(locale, key string, data map[string]any) string { return key }
