package notify

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"
)

// LogFile appends notifications to a shared log file that other sessions or
// tooling can tail.
type LogFile struct {
	Path string
}

func (l LogFile) Name() string { return "logfile" }

func (l LogFile) Send(_ context.Context, ev model.NotificationEvent) error {
	title, body := Render(ev)
	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open notification log: %w", err)
	}
	defer f.Close()

	heavy := strings.Repeat("=", 80)
	light := strings.Repeat("-", 80)
	stamp := ev.EmittedAt.Format("2006-01-02 15:04:05")
	if _, err := fmt.Fprintf(f, "\n%s\n[%s] %s\n%s\n%s\n%s\n\n", heavy, stamp, title, light, body, heavy); err != nil {
		return fmt.Errorf("append notification log: %w", err)
	}
	return nil
}
