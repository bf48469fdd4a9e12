package scenes

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"clubbot/internal/domain"
	"clubbot/internal/domain/entities"
	"clubbot/internal/ports/input"
	"clubbot/internal/ports/output"
	"clubbot/internal/scene"
)

// joinState accumulates the member's answers before the participation row
// is created in the final step.
type joinState struct {
	EventID uint
	Path    string
	Amount  *decimal.Decimal
	Guests  int
	Dietary *string
}

const maxGuests = 50

// joinScene collects the payment path and the optional extras, then creates
// the participation. For the advance/full paths the closing reply carries
// the payment instructions and the "I paid" button.
func (s *Scenes) joinScene() *scene.Scene {
	return &scene.Scene{
		ID: SceneJoin,
		OnEnter: func(ctx context.Context, sess *scene.Session) error {
			st := sess.State.(*joinState)
			event, err := s.events.GetEvent(ctx, st.EventID)
			if err != nil {
				return err
			}
			s.sendPaymentChoice(ctx, sess.User, event)
			return nil
		},
		Steps: []scene.StepHandler{
			s.joinPath,
			s.joinGuests,
			s.joinDietary,
			s.joinComment,
		},
	}
}

func (s *Scenes) sendPaymentChoice(ctx context.Context, u scene.User, event *entities.Event) {
	opts := s.parts.PaymentOptions(event, s.now())
	var row []output.Button
	for _, opt := range opts {
		switch opt.Path {
		case domain.PayPathOnSite:
			row = append(row, btn(s.t(u, "button.pay_onsite", nil), "path:"+opt.Path))
		case domain.PayPathAdvance:
			row = append(row, btn(s.t(u, "button.pay_advance", map[string]any{"Amount": opt.Amount.String()}), "path:"+opt.Path))
		case domain.PayPathFull:
			row = append(row, btn(s.t(u, "button.pay_full", map[string]any{"Amount": opt.Amount.String()}), "path:"+opt.Path))
		}
	}
	s.reply(ctx, u, "join.ask_path", nil, row)
}

func (s *Scenes) joinPath(ctx context.Context, upd scene.Update, sess *scene.Session) (scene.Result, error) {
	st := sess.State.(*joinState)
	event, err := s.events.GetEvent(ctx, st.EventID)
	if err != nil {
		return scene.Result{}, err
	}
	if upd.Kind != scene.KindCallback {
		s.sendPaymentChoice(ctx, upd.User, event)
		return scene.Stay(), nil
	}
	verb, arg := splitAction(upd.Action)
	if verb != "path" {
		s.answer(ctx, upd, "", nil)
		return scene.Stay(), nil
	}

	// Re-derive the options: the deadline may have passed while the user
	// was looking at the buttons.
	valid := false
	for _, opt := range s.parts.PaymentOptions(event, s.now()) {
		if opt.Path == arg {
			valid = true
			st.Amount = opt.Amount
		}
	}
	if !valid {
		s.answer(ctx, upd, "join.path_expired", nil)
		s.sendPaymentChoice(ctx, upd.User, event)
		return scene.Stay(), nil
	}

	st.Path = arg
	s.answer(ctx, upd, "", nil)
	s.reply(ctx, upd.User, "join.ask_guests", nil, []output.Button{
		btn(s.t(upd.User, "button.skip", nil), "skip"),
	})
	return scene.Advance(), nil
}

func (s *Scenes) joinGuests(ctx context.Context, upd scene.Update, sess *scene.Session) (scene.Result, error) {
	st := sess.State.(*joinState)

	switch upd.Kind {
	case scene.KindCallback:
		if upd.Action != "skip" {
			s.answer(ctx, upd, "", nil)
			return scene.Stay(), nil
		}
		st.Guests = 1
		s.answer(ctx, upd, "", nil)

	case scene.KindText:
		n, err := strconv.Atoi(strings.TrimSpace(upd.Text))
		if err != nil || n < 1 || n > maxGuests {
			s.reply(ctx, upd.User, "error.bad_guests", nil)
			return scene.Stay(), nil
		}
		st.Guests = n

	default:
		s.reply(ctx, upd.User, "join.ask_guests", nil, []output.Button{
			btn(s.t(upd.User, "button.skip", nil), "skip"),
		})
		return scene.Stay(), nil
	}

	s.reply(ctx, upd.User, "join.ask_dietary", nil, []output.Button{
		btn(s.t(upd.User, "button.skip", nil), "skip"),
	})
	return scene.Advance(), nil
}

func (s *Scenes) joinDietary(ctx context.Context, upd scene.Update, sess *scene.Session) (scene.Result, error) {
	st := sess.State.(*joinState)

	switch upd.Kind {
	case scene.KindCallback:
		if upd.Action != "skip" {
			s.answer(ctx, upd, "", nil)
			return scene.Stay(), nil
		}
		s.answer(ctx, upd, "", nil)

	case scene.KindText:
		if text, ok := textOf(upd); ok {
			st.Dietary = &text
		}

	default:
		s.reply(ctx, upd.User, "join.ask_dietary", nil, []output.Button{
			btn(s.t(upd.User, "button.skip", nil), "skip"),
		})
		return scene.Stay(), nil
	}

	s.reply(ctx, upd.User, "join.ask_comment", nil, []output.Button{
		btn(s.t(upd.User, "button.skip", nil), "skip"),
	})
	return scene.Advance(), nil
}

func (s *Scenes) joinComment(ctx context.Context, upd scene.Update, sess *scene.Session) (scene.Result, error) {
	st := sess.State.(*joinState)

	var comment *string
	switch upd.Kind {
	case scene.KindCallback:
		if upd.Action != "skip" {
			s.answer(ctx, upd, "", nil)
			return scene.Stay(), nil
		}
		s.answer(ctx, upd, "", nil)

	case scene.KindText:
		if text, ok := textOf(upd); ok {
			comment = &text
		}

	default:
		s.reply(ctx, upd.User, "join.ask_comment", nil, []output.Button{
			btn(s.t(upd.User, "button.skip", nil), "skip"),
		})
		return scene.Stay(), nil
	}

	participation, err := s.parts.Join(ctx, input.JoinRequest{
		Member:              memberFromUser(upd.User),
		EventID:             st.EventID,
		Path:                st.Path,
		GuestsCount:         st.Guests,
		Comment:             comment,
		DietaryRestrictions: st.Dietary,
	})
	if errors.Is(err, domain.ErrAlreadyJoined) {
		s.reply(ctx, upd.User, "join.already", nil)
		return scene.Leave(), nil
	}
	if err != nil {
		return scene.Result{}, err
	}

	if st.Path == domain.PayPathOnSite {
		s.reply(ctx, upd.User, "join.done_onsite", nil)
		return scene.Leave(), nil
	}

	s.sendPaymentInstructions(ctx, upd.User, st, participation)
	return scene.Leave(), nil
}

func (s *Scenes) sendPaymentInstructions(ctx context.Context, u scene.User, st *joinState, p *entities.Participation) {
	var b strings.Builder
	amount := ""
	if st.Amount != nil {
		amount = st.Amount.String()
	}
	b.WriteString(s.t(u, "join.pay_instructions", map[string]any{"Amount": amount}))

	details, err := s.content.ListPaymentDetails(ctx)
	if err == nil {
		for _, d := range details {
			b.WriteString(fmt.Sprintf("\n\n%s\n%s", d.Title, d.Description))
		}
	}

	s.replyText(ctx, u, b.String(), []output.Button{
		btn(s.t(u, "button.i_paid", nil), fmt.Sprintf("paid:%d", p.ID)),
	})
}

func memberFromUser(u scene.User) entities.Member {
	return entities.Member{
		TelegramID: u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Username:   u.Username,
	}
}
