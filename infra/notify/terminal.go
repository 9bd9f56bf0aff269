package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"
)

// Terminal prints notifications to the controlling terminal. An OSC 9
// escape raises a desktop notification in terminals that support it
// (iTerm2 and friends); the boxed text keeps the alert visible in
// scrollback either way.
type Terminal struct {
	// Out defaults to stdout.
	Out io.Writer
}

func (t Terminal) Name() string { return "terminal" }

func (t Terminal) out() io.Writer {
	if t.Out != nil {
		return t.Out
	}
	return os.Stdout
}

func (t Terminal) Send(_ context.Context, ev model.NotificationEvent) error {
	title, body := Render(ev)
	rule := strings.Repeat("=", 70)

	var b strings.Builder
	fmt.Fprintf(&b, "\033]9;%s: %s\007", title, body)
	fmt.Fprintf(&b, "\n%s\n🔔 %s\n%s\n%s\n%s\n\n", rule, title, rule, body, rule)

	_, err := io.WriteString(t.out(), b.String())
	return err
}
