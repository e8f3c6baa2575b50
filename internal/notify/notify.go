// Package notify carries transient user-facing messages.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type Level string

const (
	Success Level = "success"
	Info    Level = "info"
	Error   Level = "error"
)

// DefaultTTL is how long a notice stays visible before it is dismissed.
const DefaultTTL = 2 * time.Second

type Notice struct {
	Level   Level
	Message string
	At      time.Time
	TTL     time.Duration
}

// Expired reports whether the notice should no longer be shown.
func (n Notice) Expired(now time.Time) bool {
	return now.Sub(n.At) >= n.TTL
}

type Notifier interface {
	Notify(n Notice)
}

// Func adapts a function to Notifier.
type Func func(Notice)

func (f Func) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Notifier = Func(func(Notice) {})

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#40c057")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#adb5bd"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#fa5252")).Bold(true)
)

// Terminal prints notices as single styled lines.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) Notify(n Notice) {
	style := infoStyle
	marker := "i"
	switch n.Level {
	case Success:
		style, marker = successStyle, "✓"
	case Error:
		style, marker = errorStyle, "✗"
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, style.Render(marker+" "+n.Message))
}

// Recorder keeps notices in memory and drops them once their TTL passes.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
	now     func() time.Time
}

func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// All returns every notice received, expired or not.
func (r *Recorder) All() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Active prunes expired notices and returns the rest.
func (r *Recorder) Active() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	kept := r.notices[:0]
	for _, n := range r.notices {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	r.notices = kept
	return append([]Notice(nil), kept...)
}

// Last returns the most recent notice.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}
