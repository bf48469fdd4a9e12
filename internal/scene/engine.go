package scene

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Hooks let the owner of the engine translate engine-level outcomes into
// user-facing replies without the engine knowing about transports or i18n.
type Hooks struct {
	// OnError is invoked when a step or enter handler returns an error.
	// It replies to the user and reports whether the session must be torn
	// down (entity gone, no retry possible) or kept for a retry.
	OnError func(ctx context.Context, upd Update, err error) (teardown bool)
	// OnPanic replies with a generic apology after a recovered panic.
	OnPanic func(ctx context.Context, upd Update)
	// OnCancelled replies after the user aborted a scene with /cancel.
	OnCancelled func(ctx context.Context, upd Update)
}

// Engine is a generic controller for stateful multi-step per-user dialogs.
//
// Updates for the same user must be handed to Dispatch in arrival order and
// are processed one at a time: a step handler fully completes, including its
// entity-store writes, before the next update for that user runs. Updates
// for different users run concurrently.
type Engine struct {
	mu       sync.Mutex
	scenes   map[string]*Scene
	sessions map[int64]*Session
	perUser  map[int64]*sync.Mutex

	fallback Fallback
	hooks    Hooks
	log      *zap.Logger
}

// CancelCommand aborts any active scene from inside any step.
const CancelCommand = "cancel"

func NewEngine(log *zap.Logger) *Engine {
	return &Engine{
		scenes:   make(map[string]*Scene),
		sessions: make(map[int64]*Session),
		perUser:  make(map[int64]*sync.Mutex),
		log:      log,
	}
}

func (e *Engine) Register(s *Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[s.ID] = s
}

func (e *Engine) SetFallback(f Fallback) {
	e.fallback = f
}

func (e *Engine) SetHooks(h Hooks) {
	e.hooks = h
}

// Enter starts sceneID for the user, overwriting any previously active scene.
// An unknown scene id is logged and ignored. Enter must run on the user's
// dispatch path (fallback, step handler, or before updates flow) so that it
// never races with a step of the same user.
func (e *Engine) Enter(ctx context.Context, user User, sceneID string, state any) {
	e.mu.Lock()
	sc, ok := e.scenes[sceneID]
	if !ok {
		e.mu.Unlock()
		e.log.Warn("enter: unknown scene", zap.String("scene", sceneID), zap.Int64("user", user.ID))
		return
	}
	sess := &Session{User: user, SceneID: sceneID, Step: 0, State: state}
	e.sessions[user.ID] = sess
	e.mu.Unlock()

	if sc.OnEnter == nil {
		return
	}
	if err := sc.OnEnter(ctx, sess); err != nil {
		e.log.Error("enter handler failed",
			zap.String("scene", sceneID), zap.Int64("user", user.ID), zap.Error(err))
		e.Leave(user.ID)
		if e.hooks.OnError != nil {
			e.hooks.OnError(ctx, Update{User: user}, err)
		}
	}
}

// Leave destroys the user's session unconditionally.
func (e *Engine) Leave(userID int64) {
	e.mu.Lock()
	delete(e.sessions, userID)
	e.mu.Unlock()
}

// Active returns the id of the user's active scene, if any.
func (e *Engine) Active(userID int64) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	sess, ok := e.sessions[userID]
	if !ok {
		return "", false
	}
	return sess.SceneID, true
}

// Dispatch routes one inbound update: to the current step of the user's
// active scene, or to the fallback router when no scene is active.
func (e *Engine) Dispatch(ctx context.Context, upd Update) {
	lock := e.userLock(upd.User.ID)
	lock.Lock()
	defer lock.Unlock()

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("panic in dispatch",
				zap.Any("panic", r),
				zap.Int("kind", int(upd.Kind)),
				zap.Int64("user", upd.User.ID))
			if e.hooks.OnPanic != nil {
				e.hooks.OnPanic(ctx, upd)
			}
		}
	}()

	sess := e.session(upd.User.ID)
	if sess == nil {
		if e.fallback != nil {
			e.fallback(ctx, upd)
		}
		return
	}

	if upd.Kind == KindCommand && upd.Command == CancelCommand {
		e.Leave(upd.User.ID)
		if e.hooks.OnCancelled != nil {
			e.hooks.OnCancelled(ctx, upd)
		}
		return
	}

	sc := e.scene(sess.SceneID)
	if sc == nil || sess.Step < 0 || sess.Step >= len(sc.Steps) {
		// Session points at nothing runnable; drop it rather than wedge the user.
		e.log.Error("inconsistent session",
			zap.String("scene", sess.SceneID), zap.Int("step", sess.Step), zap.Int64("user", upd.User.ID))
		e.Leave(upd.User.ID)
		return
	}

	res, err := sc.Steps[sess.Step](ctx, upd, sess)
	if err != nil {
		e.log.Warn("step handler failed",
			zap.String("scene", sess.SceneID),
			zap.Int("step", sess.Step),
			zap.Int("kind", int(upd.Kind)),
			zap.Int64("user", upd.User.ID),
			zap.Error(err))
		teardown := false
		if e.hooks.OnError != nil {
			teardown = e.hooks.OnError(ctx, upd, err)
		}
		if teardown {
			e.Leave(upd.User.ID)
		}
		return
	}

	e.apply(ctx, upd.User, sess, sc, res)
}

func (e *Engine) apply(ctx context.Context, user User, sess *Session, sc *Scene, res Result) {
	switch res.Op {
	case OpStay:
	case OpAdvance:
		sess.Step++
		if sess.Step >= len(sc.Steps) {
			e.Leave(user.ID)
		}
	case OpRewind:
		if sess.Step > 0 {
			sess.Step--
		}
	case OpLeave:
		e.Leave(user.ID)
	case OpSwitch:
		e.Leave(user.ID)
		e.Enter(ctx, user, res.SceneID, res.State)
	}
}

func (e *Engine) session(userID int64) *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessions[userID]
}

func (e *Engine) scene(id string) *Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scenes[id]
}

func (e *Engine) userLock(userID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.perUser[userID]
	if !ok {
		lock = &sync.Mutex{}
		e.perUser[userID] = lock
	}
	return lock
}
