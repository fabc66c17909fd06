package update

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/backlog/internal/engine"
	"github.com/sandeepkv93/backlog/internal/scheduler"
)

type View string

const (
	ViewRandom View = "Random"
	ViewList   View = "List"
	ViewFuture View = "Future"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Random string
	List   string
	Future string
	Add    string
	Help   string
	Quit   string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

// Options tune a Model. Zero values fall back to sensible defaults.
type Options struct {
	DueCheckInterval     time.Duration
	DesktopNotifications bool
	Notifier             DesktopNotifier
	Now                  func() time.Time
}

type Model struct {
	CurrentView    View
	Engine         *engine.Engine
	Waker          *scheduler.Waker
	Palette        CommandPaletteState
	HelpVisible    bool
	Adding         bool
	ListCursor     int
	FutureCursor   int
	Notifications  []Notification
	DesktopEnabled bool
	notifier       DesktopNotifier
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error
	quickAddInput  textinput.Model
	commandInput   textinput.Model
	helpModel      help.Model
	ctx            context.Context
	now            func() time.Time
	dueInterval    time.Duration
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// ReturnDueMsg carries an event from the waker: a deferred todo has
// reached its return instant.
type ReturnDueMsg struct {
	Event scheduler.ReturnEvent
}

// DueTickMsg is the periodic fallback due-check.
type DueTickMsg struct {
	At time.Time
}

// NewModel builds the TUI around a loaded engine. waker may be nil, in
// which case only the periodic tick returns deferred todos.
func NewModel(ctx context.Context, eng *engine.Engine, waker *scheduler.Waker, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := Model{
		CurrentView:    ViewRandom,
		Engine:         eng,
		Waker:          waker,
		DesktopEnabled: opts.DesktopNotifications,
		notifier:       NoopDesktopNotifier{},
		Keys: GlobalKeyMap{
			Random: "1",
			List:   "2",
			Future: "3",
			Add:    "a",
			Help:   "?",
			Quit:   "q",
		},
		ctx:         ctx,
		now:         opts.Now,
		dueInterval: opts.DueCheckInterval,
	}
	if opts.Notifier != nil {
		m.notifier = opts.Notifier
	}
	if m.now == nil {
		m.now = defaultNow
	}
	if m.dueInterval <= 0 {
		m.dueInterval = time.Minute
	}
	m.initBubbleComponents()
	m.syncWaker()
	return m
}

func (m *Model) initBubbleComponents() {
	m.quickAddInput = textinput.New()
	m.quickAddInput.Placeholder = "new todo"
	m.quickAddInput.Prompt = "+ "
	m.quickAddInput.CharLimit = 500

	m.commandInput = textinput.New()
	m.commandInput.Placeholder = "done 1 3"
	m.commandInput.Prompt = "/"

	m.helpModel = help.New()
}
