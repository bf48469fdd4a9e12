package scene

import "context"

// User is the chat identity attached to every inbound update.
type User struct {
	ID        int64
	ChatID    int64
	Locale    string
	FirstName string
	LastName  string
	Username  string
}

// Kind discriminates the closed inbound update union.
type Kind int

const (
	KindCommand Kind = iota
	KindCallback
	KindText
)

// Update is one inbound chat update. Exactly one of the Command/Args,
// Action/CallbackID or Text groups is meaningful, selected by Kind.
type Update struct {
	User User
	Kind Kind

	Command string // KindCommand, without the leading slash
	Args    string

	Action     string // KindCallback
	CallbackID string

	Text string // KindText
}

// Op is the navigation decision a step handler returns.
type Op int

const (
	// OpStay keeps the step index unchanged; the handler has already
	// re-prompted the user.
	OpStay Op = iota
	// OpAdvance moves to the next step; past the last step the session is
	// implicitly destroyed.
	OpAdvance
	// OpRewind moves one step back, clamped at the first step.
	OpRewind
	// OpLeave destroys the session.
	OpLeave
	// OpSwitch atomically leaves the current scene and enters another.
	OpSwitch
)

// Result is what a step handler tells the engine to do next.
type Result struct {
	Op      Op
	SceneID string // OpSwitch target
	State   any    // OpSwitch initial state
}

func Stay() Result             { return Result{Op: OpStay} }
func Advance() Result          { return Result{Op: OpAdvance} }
func Rewind() Result           { return Result{Op: OpRewind} }
func Leave() Result            { return Result{Op: OpLeave} }
func Switch(id string, state any) Result {
	return Result{Op: OpSwitch, SceneID: id, State: state}
}

// Session is the transient per-user dialog state: which scene, which step,
// what draft. It lives from Enter to Leave and is never shared across users.
type Session struct {
	User    User
	SceneID string
	Step    int
	State   any
}

// StepHandler processes exactly one inbound update at one step.
type StepHandler func(ctx context.Context, upd Update, sess *Session) (Result, error)

// EnterHandler sends the scene's opening prompt right after Enter.
type EnterHandler func(ctx context.Context, sess *Session) error

// Scene is a named, ordered list of step handlers.
type Scene struct {
	ID      string
	OnEnter EnterHandler
	Steps   []StepHandler
}

// Fallback handles updates for users with no active scene.
type Fallback func(ctx context.Context, upd Update)
