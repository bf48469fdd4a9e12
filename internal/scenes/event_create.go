package scenes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"clubbot/internal/application"
	"clubbot/internal/domain/entities"
	"clubbot/internal/ports/output"
	"clubbot/internal/scene"
	"clubbot/pkg/datetime"
)

// eventDraft is the scene-local working copy of an event before it is
// persisted at the end of the dialog. Key makes the final insert idempotent
// across step retries.
type eventDraft struct {
	Key           uuid.UUID
	Title         string
	StartDate     time.Time
	EndDate       time.Time
	Description   string
	AllowOnSite   bool
	FullAmount    *decimal.Decimal
	AdvanceAmount *decimal.Decimal
	Deadline      *time.Time
}

func newEventDraft() *eventDraft {
	return &eventDraft{Key: uuid.New()}
}

// eventCreateScene is the admin creation wizard: title, dates, description,
// then payment terms. An advance amount of zero skips the deadline step
// entirely and leaves the deadline null.
func (s *Scenes) eventCreateScene() *scene.Scene {
	return &scene.Scene{
		ID: SceneEventCreate,
		OnEnter: func(ctx context.Context, sess *scene.Session) error {
			s.reply(ctx, sess.User, "create.ask_title", nil)
			return nil
		},
		Steps: []scene.StepHandler{
			s.createTitle,
			s.createStartDate,
			s.createEndDate,
			s.createDescription,
			s.createOnSite,
			s.createFullAmount,
			s.createAdvanceAmount,
			s.createDeadline,
		},
	}
}

func (s *Scenes) createTitle(ctx context.Context, upd scene.Update, sess *scene.Session) (scene.Result, error) {
	text, ok := textOf(upd)
	if !ok {
		s.reply(ctx, upd.User, "create.ask_title", nil)
		return scene.Stay(), nil
	}
	sess.State.(*eventDraft).Title = text
	s.reply(ctx, upd.User, "create.ask_start", map[string]any{"Layout": datetime.Layout})
	return scene.Advance(), nil
}

func (s *Scenes) createStartDate(ctx context.Context, upd scene.Update, sess *scene.Session) (scene.Result, error) {
	text, ok := textOf(upd)
	if !ok {
		s.reply(ctx, upd.User, "create.ask_start", map[string]any{"Layout": datetime.Layout})
		return scene.Stay(), nil
	}
	start, err := datetime.Parse(text)
	if err != nil {
		s.reply(ctx, upd.User, "error.bad_date", nil)
		return scene.Stay(), nil
	}
	sess.State.(*eventDraft).StartDate = start
	s.reply(ctx, upd.User, "create.ask_end", nil)
	return scene.Advance(), nil
}

func (s *Scenes) createEndDate(ctx context.Context, upd scene.Update, sess *scene.Session) (scene.Result, error) {
	text, ok := textOf(upd)
	if !ok {
		s.reply(ctx, upd.User, "create.ask_end", nil)
		return scene.Stay(), nil
	}
	end, err := datetime.Parse(text)
	if err != nil {
		s.reply(ctx, upd.User, "error.bad_date", nil)
		return scene.Stay(), nil
	}
	draft := sess.State.(*eventDraft)
	if end.Before(draft.StartDate) {
		s.reply(ctx, upd.User, "error.end_before_start", nil)
		return scene.Stay(), nil
	}
	draft.EndDate = end
	s.reply(ctx, upd.User, "create.ask_description", nil)
	return scene.Advance(), nil
}

func (s *Scenes) createDescription(ctx context.Context, upd scene.Update, sess *scene.Session) (scene.Result, error) {
	text, ok := textOf(upd)
	if !ok {
		s.reply(ctx, upd.User, "create.ask_description", nil)
		return scene.Stay(), nil
	}
	sess.State.(*eventDraft).Description = text
	s.askOnSite(ctx, upd.User)
	return scene.Advance(), nil
}

func (s *Scenes) askOnSite(ctx context.Context, u scene.User) {
	s.reply(ctx, u, "create.ask_onsite", nil, []output.Button{
		btn(s.t(u, "button.yes", nil), "onsite:yes"),
		btn(s.t(u, "button.no", nil), "onsite:no"),
	})
}

func (s *Scenes) createOnSite(ctx context.Context, upd scene.Update, sess *scene.Session) (scene.Result, error) {
	if upd.Kind != scene.KindCallback {
		s.askOnSite(ctx, upd.User)
		return scene.Stay(), nil
	}
	verb, arg := splitAction(upd.Action)
	if verb != "onsite" || (arg != "yes" && arg != "no") {
		s.answer(ctx, upd, "", nil)
		return scene.Stay(), nil
	}
	sess.State.(*eventDraft).AllowOnSite = arg == "yes"
	s.answer(ctx, upd, "", nil)
	s.reply(ctx, upd.User, "create.ask_full_amount", nil)
	return scene.Advance(), nil
}

func (s *Scenes) createFullAmount(ctx context.Context, upd scene.Update, sess *scene.Session) (scene.Result, error) {
	text, ok := textOf(upd)
	if !ok {
		s.reply(ctx, upd.User, "create.ask_full_amount", nil)
		return scene.Stay(), nil
	}
	amount, err := application.ParseAmount(text)
	if err != nil {
		s.reply(ctx, upd.User, "error.bad_amount", nil)
		return scene.Stay(), nil
	}
	draft := sess.State.(*eventDraft)
	if amount.IsZero() {
		draft.FullAmount = nil
	} else {
		draft.FullAmount = &amount
	}
	s.reply(ctx, upd.User, "create.ask_advance_amount", nil)
	return scene.Advance(), nil
}

// createAdvanceAmount is the branch point: zero disables advance payment,
// skips the deadline question and finishes the dialog right away.
func (s *Scenes) createAdvanceAmount(ctx context.Context, upd scene.Update, sess *scene.Session) (scene.Result, error) {
	text, ok := textOf(upd)
	if !ok {
		s.reply(ctx, upd.User, "create.ask_advance_amount", nil)
		return scene.Stay(), nil
	}
	amount, err := application.ParseAmount(text)
	if err != nil {
		s.reply(ctx, upd.User, "error.bad_amount", nil)
		return scene.Stay(), nil
	}
	draft := sess.State.(*eventDraft)
	if amount.IsZero() {
		draft.AdvanceAmount = nil
		draft.Deadline = nil
		return s.finishCreate(ctx, upd.User, draft)
	}
	draft.AdvanceAmount = &amount
	s.askDeadline(ctx, upd.User)
	return scene.Advance(), nil
}

func (s *Scenes) askDeadline(ctx context.Context, u scene.User) {
	s.reply(ctx, u, "create.ask_deadline", map[string]any{"Layout": datetime.Layout}, []output.Button{
		btn(s.t(u, "button.day_before", nil), "deadline:daybefore"),
	})
}

func (s *Scenes) createDeadline(ctx context.Context, upd scene.Update, sess *scene.Session) (scene.Result, error) {
	draft := sess.State.(*eventDraft)

	switch upd.Kind {
	case scene.KindCallback:
		verb, arg := splitAction(upd.Action)
		if verb != "deadline" || arg != "daybefore" {
			s.answer(ctx, upd, "", nil)
			return scene.Stay(), nil
		}
		deadline := draft.StartDate.Add(-24 * time.Hour)
		draft.Deadline = &deadline
		s.answer(ctx, upd, "", nil)
		return s.finishCreate(ctx, upd.User, draft)

	case scene.KindText:
		deadline, err := datetime.Parse(upd.Text)
		if err != nil {
			s.reply(ctx, upd.User, "error.bad_date", nil)
			return scene.Stay(), nil
		}
		if deadline.After(draft.StartDate) {
			s.reply(ctx, upd.User, "error.deadline_after_start", nil)
			return scene.Stay(), nil
		}
		draft.Deadline = &deadline
		return s.finishCreate(ctx, upd.User, draft)
	}

	s.askDeadline(ctx, upd.User)
	return scene.Stay(), nil
}

// finishCreate persists the draft and shows the card with a publish button.
// The write is keyed on the draft identity, so a retried step cannot insert
// a second event.
func (s *Scenes) finishCreate(ctx context.Context, u scene.User, draft *eventDraft) (scene.Result, error) {
	event := &entities.Event{
		DraftKey:               draft.Key,
		Title:                  draft.Title,
		Description:            &draft.Description,
		StartDate:              &draft.StartDate,
		EndDate:                &draft.EndDate,
		AllowOnSitePayment:     draft.AllowOnSite,
		FullPaymentAmount:      draft.FullAmount,
		AdvancePaymentAmount:   draft.AdvanceAmount,
		AdvancePaymentDeadline: draft.Deadline,
	}
	if err := s.events.CreateDraft(ctx, event); err != nil {
		return scene.Result{}, err
	}
	s.replyText(ctx, u,
		s.t(u, "create.done", nil)+"\n\n"+s.eventCard(u, event),
		[]output.Button{
			btn(s.t(u, "button.publish", nil), fmt.Sprintf("publish:%d", event.ID)),
			btn(s.t(u, "button.edit", nil), fmt.Sprintf("edit:%d", event.ID)),
		})
	return scene.Leave(), nil
}
