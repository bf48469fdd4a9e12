package scenes

import (
	"context"

	"clubbot/internal/scene"
)

// clubInfoScene shows the current club description and replaces it with the
// next text message.
func (s *Scenes) clubInfoScene() *scene.Scene {
	return &scene.Scene{
		ID: SceneClubInfo,
		OnEnter: func(ctx context.Context, sess *scene.Session) error {
			current, err := s.content.ClubInfo(ctx)
			if err != nil {
				return err
			}
			if current != "" {
				s.replyText(ctx, sess.User, current)
			}
			s.reply(ctx, sess.User, "info.ask_text", nil)
			return nil
		},
		Steps: []scene.StepHandler{s.clubInfoSave},
	}
}

func (s *Scenes) clubInfoSave(ctx context.Context, upd scene.Update, sess *scene.Session) (scene.Result, error) {
	text, ok := textOf(upd)
	if !ok {
		s.reply(ctx, upd.User, "info.ask_text", nil)
		return scene.Stay(), nil
	}
	if err := s.content.SetClubInfo(ctx, text); err != nil {
		return scene.Result{}, err
	}
	s.reply(ctx, upd.User, "info.saved", nil)
	return scene.Leave(), nil
}
