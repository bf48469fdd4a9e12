package scenes

import (
	"context"
	"fmt"

	"clubbot/internal/domain/entities"
	"clubbot/internal/ports/output"
	"clubbot/internal/scene"
)

// pdState holds the record being created or edited across the two value
// steps. ID zero means a new record.
type pdState struct {
	ID    uint
	Title string
}

// paymentDetailsScene manages the payment instruction records shown to
// members after they join a paid event. It loops back to the menu after
// every mutation via a switch onto itself.
func (s *Scenes) paymentDetailsScene() *scene.Scene {
	return &scene.Scene{
		ID: ScenePaymentDetails,
		OnEnter: func(ctx context.Context, sess *scene.Session) error {
			return s.sendPaymentDetailsMenu(ctx, sess.User)
		},
		Steps: []scene.StepHandler{
			s.pdMenu,
			s.pdTitle,
			s.pdDescription,
		},
	}
}

func (s *Scenes) sendPaymentDetailsMenu(ctx context.Context, u scene.User) error {
	details, err := s.content.ListPaymentDetails(ctx)
	if err != nil {
		return err
	}
	var rows [][]output.Button
	for _, d := range details {
		rows = append(rows, []output.Button{
			btn(d.Title, fmt.Sprintf("pd_edit:%d", d.ID)),
			btn(s.t(u, "button.delete", nil), fmt.Sprintf("pd_del:%d", d.ID)),
		})
	}
	rows = append(rows, []output.Button{
		btn(s.t(u, "button.new", nil), "pd_new"),
		btn(s.t(u, "button.close", nil), "close"),
	})
	s.reply(ctx, u, "pd.menu", nil, rows...)
	return nil
}

func (s *Scenes) pdMenu(ctx context.Context, upd scene.Update, sess *scene.Session) (scene.Result, error) {
	st := sess.State.(*pdState)
	if upd.Kind != scene.KindCallback {
		if err := s.sendPaymentDetailsMenu(ctx, upd.User); err != nil {
			return scene.Result{}, err
		}
		return scene.Stay(), nil
	}

	verb, arg := splitAction(upd.Action)
	switch verb {
	case "pd_new":
		st.ID = 0
		s.answer(ctx, upd, "", nil)
		s.reply(ctx, upd.User, "pd.ask_title", nil)
		return scene.Advance(), nil

	case "pd_edit":
		id, ok := parseID(arg)
		if !ok {
			s.answer(ctx, upd, "", nil)
			return scene.Stay(), nil
		}
		if _, err := s.content.GetPaymentDetails(ctx, id); err != nil {
			return scene.Result{}, err
		}
		st.ID = id
		s.answer(ctx, upd, "", nil)
		s.reply(ctx, upd.User, "pd.ask_title", nil)
		return scene.Advance(), nil

	case "pd_del":
		id, ok := parseID(arg)
		if !ok {
			s.answer(ctx, upd, "", nil)
			return scene.Stay(), nil
		}
		if err := s.content.DeletePaymentDetails(ctx, id); err != nil {
			return scene.Result{}, err
		}
		s.answer(ctx, upd, "pd.deleted", nil)
		return scene.Switch(ScenePaymentDetails, &pdState{}), nil

	case "close":
		s.answer(ctx, upd, "", nil)
		return scene.Leave(), nil
	}

	s.answer(ctx, upd, "", nil)
	return scene.Stay(), nil
}

func (s *Scenes) pdTitle(ctx context.Context, upd scene.Update, sess *scene.Session) (scene.Result, error) {
	text, ok := textOf(upd)
	if !ok {
		s.reply(ctx, upd.User, "pd.ask_title", nil)
		return scene.Stay(), nil
	}
	sess.State.(*pdState).Title = text
	s.reply(ctx, upd.User, "pd.ask_description", nil)
	return scene.Advance(), nil
}

func (s *Scenes) pdDescription(ctx context.Context, upd scene.Update, sess *scene.Session) (scene.Result, error) {
	st := sess.State.(*pdState)
	text, ok := textOf(upd)
	if !ok {
		s.reply(ctx, upd.User, "pd.ask_description", nil)
		return scene.Stay(), nil
	}
	record := &entities.PaymentDetails{
		ID:          st.ID,
		Title:       st.Title,
		Description: text,
	}
	if err := s.content.SavePaymentDetails(ctx, record); err != nil {
		return scene.Result{}, err
	}
	s.reply(ctx, upd.User, "pd.saved", nil)
	return scene.Switch(ScenePaymentDetails, &pdState{}), nil
}
