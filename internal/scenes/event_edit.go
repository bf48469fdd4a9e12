package scenes

import (
	"context"
	"errors"

	"clubbot/internal/domain"
	"clubbot/internal/domain/entities"
	"clubbot/internal/ports/output"
	"clubbot/internal/scene"
	"clubbot/pkg/datetime"
)

// editState targets one event; Field is set once the admin picked what to
// change.
type editState struct {
	EventID uint
	Field   domain.Field
}

// eventEditScene is a two-step loop: a menu step picking a field or a
// lifecycle action, and a value step reading the new value. The value step
// rewinds back to the menu. Deletion switches to the confirmation scene.
func (s *Scenes) eventEditScene() *scene.Scene {
	return &scene.Scene{
		ID: SceneEventEdit,
		OnEnter: func(ctx context.Context, sess *scene.Session) error {
			st := sess.State.(*editState)
			event, err := s.events.GetEvent(ctx, st.EventID)
			if err != nil {
				return err
			}
			s.sendEditMenu(ctx, sess.User, event)
			return nil
		},
		Steps: []scene.StepHandler{
			s.editMenu,
			s.editValue,
		},
	}
}

func (s *Scenes) sendEditMenu(ctx context.Context, u scene.User, event *entities.Event) {
	text, rows := s.buildEditMenu(u, event)
	s.replyText(ctx, u, text, rows...)
}

// refreshEditMenu rewrites the existing menu message after an inline action.
func (s *Scenes) refreshEditMenu(ctx context.Context, u scene.User, event *entities.Event) {
	text, rows := s.buildEditMenu(u, event)
	s.editLast(ctx, u, text, rows...)
}

func (s *Scenes) buildEditMenu(u scene.User, event *entities.Event) (string, [][]output.Button) {
	fieldBtn := func(key string, f domain.Field) output.Button {
		return btn(s.t(u, key, nil), "field:"+string(f))
	}
	rows := [][]output.Button{
		{fieldBtn("field.title", domain.FieldTitle), fieldBtn("field.description", domain.FieldDescription)},
		{fieldBtn("field.location", domain.FieldLocation)},
		{fieldBtn("field.start_date", domain.FieldStartDate), fieldBtn("field.end_date", domain.FieldEndDate)},
		{fieldBtn("field.on_site_payment", domain.FieldOnSitePayment)},
		{fieldBtn("field.full_amount", domain.FieldFullAmount), fieldBtn("field.advance_amount", domain.FieldAdvanceAmount)},
		{fieldBtn("field.advance_deadline", domain.FieldAdvanceDeadline)},
	}
	if event.IsPublished {
		rows = append(rows, []output.Button{btn(s.t(u, "button.unpublish", nil), "unpublish")})
	} else {
		rows = append(rows, []output.Button{btn(s.t(u, "button.publish", nil), "do_publish")})
	}
	if event.IsCancelled {
		rows = append(rows, []output.Button{btn(s.t(u, "button.restore", nil), "restore")})
	} else {
		rows = append(rows, []output.Button{btn(s.t(u, "button.cancel_event", nil), "cancel_event")})
	}
	rows = append(rows, []output.Button{
		btn(s.t(u, "button.delete", nil), "delete"),
		btn(s.t(u, "button.close", nil), "close"),
	})
	return s.t(u, "edit.menu", nil) + "\n\n" + s.eventCard(u, event), rows
}

func (s *Scenes) editMenu(ctx context.Context, upd scene.Update, sess *scene.Session) (scene.Result, error) {
	st := sess.State.(*editState)
	if upd.Kind != scene.KindCallback {
		event, err := s.events.GetEvent(ctx, st.EventID)
		if err != nil {
			return scene.Result{}, err
		}
		s.sendEditMenu(ctx, upd.User, event)
		return scene.Stay(), nil
	}

	verb, arg := splitAction(upd.Action)
	switch verb {
	case "field":
		st.Field = domain.Field(arg)
		s.answer(ctx, upd, "", nil)
		s.askFieldValue(ctx, upd.User, st.Field)
		return scene.Advance(), nil

	case "do_publish":
		event, err := s.events.Publish(ctx, st.EventID)
		if errors.Is(err, domain.ErrEventIncomplete) {
			s.answer(ctx, upd, "error.incomplete", nil)
			return scene.Stay(), nil
		}
		if err != nil {
			return scene.Result{}, err
		}
		s.answer(ctx, upd, "edit.published", nil)
		s.refreshEditMenu(ctx, upd.User, event)
		return scene.Stay(), nil

	case "unpublish":
		return s.applyFlag(ctx, upd, s.events.Unpublish, st.EventID, "edit.unpublished")

	case "cancel_event":
		return s.applyFlag(ctx, upd, s.events.CancelEvent, st.EventID, "edit.cancelled")

	case "restore":
		return s.applyFlag(ctx, upd, s.events.RestoreEvent, st.EventID, "edit.restored")

	case "delete":
		s.answer(ctx, upd, "", nil)
		return scene.Switch(SceneEventDelete, &deleteState{EventID: st.EventID}), nil

	case "close":
		s.answer(ctx, upd, "", nil)
		return scene.Leave(), nil
	}

	s.answer(ctx, upd, "", nil)
	return scene.Stay(), nil
}

func (s *Scenes) applyFlag(
	ctx context.Context,
	upd scene.Update,
	op func(context.Context, uint) (*entities.Event, error),
	eventID uint,
	toastKey string,
) (scene.Result, error) {
	event, err := op(ctx, eventID)
	if err != nil {
		return scene.Result{}, err
	}
	s.answer(ctx, upd, toastKey, nil)
	s.refreshEditMenu(ctx, upd.User, event)
	return scene.Stay(), nil
}

func (s *Scenes) askFieldValue(ctx context.Context, u scene.User, field domain.Field) {
	switch field {
	case domain.FieldOnSitePayment:
		s.reply(ctx, u, "edit.ask_onsite", nil, []output.Button{
			btn(s.t(u, "button.yes", nil), "set:yes"),
			btn(s.t(u, "button.no", nil), "set:no"),
		})
	case domain.FieldStartDate, domain.FieldEndDate:
		s.reply(ctx, u, "edit.ask_date", map[string]any{"Layout": datetime.Layout})
	case domain.FieldAdvanceDeadline:
		s.reply(ctx, u, "edit.ask_deadline", map[string]any{"Layout": datetime.Layout}, []output.Button{
			btn(s.t(u, "button.day_before", nil), "set:daybefore"),
		})
	case domain.FieldFullAmount, domain.FieldAdvanceAmount:
		s.reply(ctx, u, "edit.ask_amount", nil)
	default:
		s.reply(ctx, u, "edit.ask_value", nil)
	}
}

func (s *Scenes) editValue(ctx context.Context, upd scene.Update, sess *scene.Session) (scene.Result, error) {
	st := sess.State.(*editState)

	var raw string
	switch upd.Kind {
	case scene.KindCallback:
		verb, arg := splitAction(upd.Action)
		if verb != "set" {
			s.answer(ctx, upd, "", nil)
			return scene.Stay(), nil
		}
		if arg == "daybefore" {
			event, err := s.events.GetEvent(ctx, st.EventID)
			if err != nil {
				return scene.Result{}, err
			}
			deadline, ok := event.DefaultAdvanceDeadline()
			if !ok {
				s.answer(ctx, upd, "error.no_start_date", nil)
				return scene.Stay(), nil
			}
			raw = datetime.Format(deadline)
		} else {
			raw = arg
		}
		s.answer(ctx, upd, "", nil)

	case scene.KindText:
		text, ok := textOf(upd)
		if !ok {
			s.askFieldValue(ctx, upd.User, st.Field)
			return scene.Stay(), nil
		}
		raw = text

	default:
		s.askFieldValue(ctx, upd.User, st.Field)
		return scene.Stay(), nil
	}

	event, err := s.events.UpdateField(ctx, st.EventID, st.Field, raw)
	if err != nil {
		if verr, ok := domain.AsValidation(err); ok {
			s.reply(ctx, upd.User, verr.Key, nil)
			return scene.Stay(), nil
		}
		return scene.Result{}, err
	}

	s.reply(ctx, upd.User, "edit.saved", nil)
	s.sendEditMenu(ctx, upd.User, event)
	return scene.Rewind(), nil
}

// deleteState carries the target through the confirmation scene.
type deleteState struct {
	EventID uint
}

// eventDeleteScene is the second phase of the two-phase delete: the admin
// must type the configured confirmation phrase verbatim.
func (s *Scenes) eventDeleteScene() *scene.Scene {
	return &scene.Scene{
		ID: SceneEventDelete,
		OnEnter: func(ctx context.Context, sess *scene.Session) error {
			s.reply(ctx, sess.User, "delete.ask_confirm", map[string]any{"Phrase": s.confirmPhrase})
			return nil
		},
		Steps: []scene.StepHandler{s.deleteConfirm},
	}
}

func (s *Scenes) deleteConfirm(ctx context.Context, upd scene.Update, sess *scene.Session) (scene.Result, error) {
	st := sess.State.(*deleteState)
	text, ok := textOf(upd)
	if !ok || text != s.confirmPhrase {
		s.reply(ctx, upd.User, "delete.mismatch", map[string]any{"Phrase": s.confirmPhrase})
		return scene.Stay(), nil
	}
	if err := s.events.DeleteEvent(ctx, st.EventID); err != nil {
		return scene.Result{}, err
	}
	s.reply(ctx, upd.User, "delete.done", nil)
	return scene.Leave(), nil
}
