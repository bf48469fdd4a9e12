package scenes

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"clubbot/internal/domain"
	"clubbot/internal/domain/entities"
	"clubbot/internal/ports/input"
	"clubbot/internal/ports/output"
	"clubbot/internal/scene"
)

// Fallback handles every update that arrives outside of a scene: the command
// surface of the bot plus the inline buttons attached to event cards and
// admin notifications.
func (s *Scenes) Fallback(ctx context.Context, upd scene.Update) {
	if err := s.route(ctx, upd); err != nil {
		s.log.Warn("router failed",
			zap.Int64("user", upd.User.ID), zap.Error(err))
		s.onError(ctx, upd, err)
	}
}

func (s *Scenes) route(ctx context.Context, upd scene.Update) error {
	switch upd.Kind {
	case scene.KindCommand:
		return s.routeCommand(ctx, upd)
	case scene.KindCallback:
		return s.routeCallback(ctx, upd)
	}
	s.reply(ctx, upd.User, "help.unknown", nil)
	return nil
}

func (s *Scenes) routeCommand(ctx context.Context, upd scene.Update) error {
	switch upd.Command {
	case "start":
		s.reply(ctx, upd.User, "help.start", nil)
	case "help":
		s.reply(ctx, upd.User, "help.text", nil)
	case "cancel":
		// Reaching the fallback means there is nothing to cancel.
		s.reply(ctx, upd.User, "help.nothing_to_cancel", nil)
	case "events":
		return s.listEvents(ctx, upd, false)
	case "past":
		return s.listEvents(ctx, upd, true)
	case "info":
		return s.showClubInfo(ctx, upd)
	case "myevents":
		return s.listMyEvents(ctx, upd)

	case "newevent":
		if !s.requireAdmin(ctx, upd) {
			return nil
		}
		s.engine.Enter(ctx, upd.User, SceneEventCreate, newEventDraft())
	case "manage":
		if !s.requireAdmin(ctx, upd) {
			return nil
		}
		return s.listManaged(ctx, upd)
	case "paymentdetails":
		if !s.requireAdmin(ctx, upd) {
			return nil
		}
		s.engine.Enter(ctx, upd.User, ScenePaymentDetails, &pdState{})
	case "setinfo":
		if !s.requireAdmin(ctx, upd) {
			return nil
		}
		s.engine.Enter(ctx, upd.User, SceneClubInfo, nil)

	default:
		s.reply(ctx, upd.User, "help.unknown", nil)
	}
	return nil
}

func (s *Scenes) routeCallback(ctx context.Context, upd scene.Update) error {
	verb, arg := splitAction(upd.Action)
	switch verb {
	case "join":
		id, ok := parseID(arg)
		if !ok {
			s.answer(ctx, upd, "", nil)
			return nil
		}
		return s.startJoin(ctx, upd, id)

	case "leavep":
		id, ok := parseID(arg)
		if !ok {
			s.answer(ctx, upd, "", nil)
			return nil
		}
		err := s.parts.CancelParticipation(ctx, upd.User.ID, id)
		if domain.IsNotFound(err) {
			s.answer(ctx, upd, "error.gone", nil)
			return nil
		}
		if err != nil {
			return err
		}
		s.answer(ctx, upd, "join.left", nil)
		return nil

	case "paid":
		id, ok := parseID(arg)
		if !ok {
			s.answer(ctx, upd, "", nil)
			return nil
		}
		err := s.parts.MarkPaid(ctx, upd.User.ID, id)
		if domain.IsNotFound(err) {
			s.answer(ctx, upd, "error.gone", nil)
			return nil
		}
		if errors.Is(err, domain.ErrWrongStatus) {
			s.answer(ctx, upd, "error.wrong_status", nil)
			return nil
		}
		if err != nil {
			return err
		}
		s.answer(ctx, upd, "", nil)
		s.reply(ctx, upd.User, "join.paid_reported", nil)
		return nil

	case "confirmpay":
		if !s.requireAdmin(ctx, upd) {
			return nil
		}
		id, ok := parseID(arg)
		if !ok {
			s.answer(ctx, upd, "", nil)
			return nil
		}
		_, err := s.parts.ConfirmPayment(ctx, id)
		if domain.IsNotFound(err) {
			s.answer(ctx, upd, "error.gone", nil)
			return nil
		}
		if errors.Is(err, domain.ErrWrongStatus) {
			s.answer(ctx, upd, "error.wrong_status", nil)
			return nil
		}
		if err != nil {
			return err
		}
		s.answer(ctx, upd, "admin.payment_confirmed", nil)
		return nil

	case "checklater":
		if !s.requireAdmin(ctx, upd) {
			return nil
		}
		id, ok := parseID(arg)
		if !ok {
			s.answer(ctx, upd, "", nil)
			return nil
		}
		err := s.parts.DeferPaymentCheck(ctx, upd.User.ChatID, upd.User.Locale, id)
		if domain.IsNotFound(err) {
			s.answer(ctx, upd, "error.gone", nil)
			return nil
		}
		if errors.Is(err, domain.ErrWrongStatus) {
			s.answer(ctx, upd, "error.wrong_status", nil)
			return nil
		}
		if err != nil {
			return err
		}
		s.answer(ctx, upd, "admin.check_later_set", nil)
		return nil

	case "publish":
		if !s.requireAdmin(ctx, upd) {
			return nil
		}
		id, ok := parseID(arg)
		if !ok {
			s.answer(ctx, upd, "", nil)
			return nil
		}
		event, err := s.events.Publish(ctx, id)
		if errors.Is(err, domain.ErrEventIncomplete) {
			s.answer(ctx, upd, "error.incomplete", nil)
			return nil
		}
		if domain.IsNotFound(err) {
			s.answer(ctx, upd, "error.gone", nil)
			return nil
		}
		if err != nil {
			return err
		}
		s.answer(ctx, upd, "edit.published", nil)
		s.replyText(ctx, upd.User, s.eventCard(upd.User, event))
		return nil

	case "edit":
		if !s.requireAdmin(ctx, upd) {
			return nil
		}
		id, ok := parseID(arg)
		if !ok {
			s.answer(ctx, upd, "", nil)
			return nil
		}
		s.answer(ctx, upd, "", nil)
		s.engine.Enter(ctx, upd.User, SceneEventEdit, &editState{EventID: id})
		return nil
	}

	s.answer(ctx, upd, "", nil)
	return nil
}

// startJoin enters the join dialog, or joins directly as on-site when the
// event carries no payment configuration at all.
func (s *Scenes) startJoin(ctx context.Context, upd scene.Update, eventID uint) error {
	event, err := s.events.GetEvent(ctx, eventID)
	if domain.IsNotFound(err) {
		s.answer(ctx, upd, "error.gone", nil)
		return nil
	}
	if err != nil {
		return err
	}

	if len(s.parts.PaymentOptions(event, s.now())) == 0 {
		_, err := s.parts.Join(ctx, input.JoinRequest{
			Member:      memberFromUser(upd.User),
			EventID:     eventID,
			Path:        domain.PayPathOnSite,
			GuestsCount: 1,
		})
		if errors.Is(err, domain.ErrAlreadyJoined) {
			s.answer(ctx, upd, "join.already", nil)
			return nil
		}
		if err != nil {
			return err
		}
		s.answer(ctx, upd, "", nil)
		s.reply(ctx, upd.User, "join.done_onsite", nil)
		return nil
	}

	s.answer(ctx, upd, "", nil)
	s.engine.Enter(ctx, upd.User, SceneJoin, &joinState{EventID: eventID})
	return nil
}

func (s *Scenes) listEvents(ctx context.Context, upd scene.Update, past bool) error {
	var (
		events []entities.Event
		err    error
	)
	if past {
		events, err = s.events.ListPast(ctx, s.now())
	} else {
		events, err = s.events.ListUpcoming(ctx, s.now())
	}
	if err != nil {
		return err
	}

	visible := events[:0:0]
	for _, e := range events {
		if e.IsPublished && !e.IsCancelled {
			visible = append(visible, e)
		}
	}
	if len(visible) == 0 {
		if past {
			s.reply(ctx, upd.User, "events.none_past", nil)
		} else {
			s.reply(ctx, upd.User, "events.none", nil)
		}
		return nil
	}

	for i := range visible {
		e := &visible[i]
		var rows [][]output.Button
		if !past {
			rows = append(rows, []output.Button{
				btn(s.t(upd.User, "button.join", nil), fmt.Sprintf("join:%d", e.ID)),
			})
		}
		s.replyText(ctx, upd.User, s.eventCard(upd.User, e), rows...)
	}
	return nil
}

// listManaged shows every event, drafts and cancelled ones included, each
// with its edit button.
func (s *Scenes) listManaged(ctx context.Context, upd scene.Update) error {
	events, err := s.events.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		s.reply(ctx, upd.User, "events.none", nil)
		return nil
	}
	for i := range events {
		e := &events[i]
		s.replyText(ctx, upd.User, s.eventCard(upd.User, e), []output.Button{
			btn(s.t(upd.User, "button.edit", nil), fmt.Sprintf("edit:%d", e.ID)),
		})
	}
	return nil
}

func (s *Scenes) listMyEvents(ctx context.Context, upd scene.Update) error {
	participations, err := s.parts.ListForMember(ctx, upd.User.ID)
	if err != nil {
		return err
	}
	if len(participations) == 0 {
		s.reply(ctx, upd.User, "myevents.none", nil)
		return nil
	}
	for _, p := range participations {
		event, err := s.events.GetEvent(ctx, p.EventID)
		if domain.IsNotFound(err) {
			continue
		}
		if err != nil {
			return err
		}
		text := s.eventCard(upd.User, event) +
			"\n\n" + s.t(upd.User, statusKey(p.Status), nil)
		s.replyText(ctx, upd.User, text, []output.Button{
			btn(s.t(upd.User, "button.leave", nil), fmt.Sprintf("leavep:%d", p.EventID)),
		})
	}
	return nil
}

func (s *Scenes) showClubInfo(ctx context.Context, upd scene.Update) error {
	info, err := s.content.ClubInfo(ctx)
	if err != nil {
		return err
	}
	if info == "" {
		s.reply(ctx, upd.User, "info.empty", nil)
		return nil
	}
	s.replyText(ctx, upd.User, info)
	return nil
}
