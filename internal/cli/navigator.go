package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/jedib0t/go-pretty/v6/text"

	"rollcall/internal/session"
)

// TerminalNavigator is the session.Navigator of the CLI. A terminal has no
// login page to send the user to, so an ended session becomes a message on
// Out and, through Ended, a non-zero exit code.
type TerminalNavigator struct {
	Out   io.Writer
	Color bool

	mu     sync.Mutex
	reason session.Reason
	ended  bool
}

// NewTerminalNavigator creates a navigator writing to out.
func NewTerminalNavigator(out io.Writer, color bool) *TerminalNavigator {
	return &TerminalNavigator{Out: out, Color: color}
}

// Navigate implements session.Navigator. Logout is a requested end of
// session and is not reported.
func (n *TerminalNavigator) Navigate(_ context.Context, target string, reason session.Reason) {
	if reason == session.ReasonLogout {
		return
	}

	n.mu.Lock()
	first := !n.ended
	n.ended = true
	n.reason = reason
	n.mu.Unlock()

	if !first || n.Out == nil {
		return
	}

	msg := fmt.Sprintf("session ended (%s): run 'rollcall auth login'", reason)
	if target != "" && target != session.DefaultLandingTarget {
		msg += " (" + target + ")"
	}
	if n.Color {
		msg = text.FgYellow.Sprint(msg)
	}
	fmt.Fprintln(n.Out, msg)
}

// Ended reports whether the pipeline terminated the session, and why.
func (n *TerminalNavigator) Ended() (session.Reason, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.reason, n.ended
}

var _ session.Navigator = (*TerminalNavigator)(nil)
