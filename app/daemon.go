package app

import (
	"context"
	"time"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"
	coremon "github.com/AIckathon-2025-08/blackout-tracker-mcp/core/monitoring"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/watch"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/infra/logger"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/infra/metrics"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/internal/eventbus"
)

// deliveryTimeout bounds one fan-out to all channels. Generous on purpose:
// Telegram and Pushover round-trips share it.
const deliveryTimeout = 30 * time.Second

// RunDaemon runs the monitoring loop until ctx is cancelled. Delivery is
// decoupled from polling through the event bus: a slow channel can delay
// later alerts but never a schedule check.
func (s *Service) RunDaemon(ctx context.Context) error {
	defer coremon.Recover()

	if s.cfg.Metrics.PromEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PromAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	bus := eventbus.New()
	events := bus.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			s.deliver(ev)
		}
	}()

	loop := watch.NewLoop(s.store, s.governor, busNotifier{bus}, s.clk, logger.New("monitor"), s.sink)
	err := loop.Run(ctx)

	// Let queued alerts drain before reporting the loop's exit.
	bus.Close()
	<-done
	return err
}

func (s *Service) deliver(ev model.NotificationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()
	if err := s.notifier.Send(ctx, ev); err != nil {
		s.log.Errorf("notification delivery failed: %v", err)
		coremon.CaptureMessage("notification delivery failed", map[string]string{"kind": string(ev.Kind)})
		return
	}
	s.log.Infof("notification delivered: %s %s %02d:00-%02d:00", ev.Kind, ev.Date, ev.StartHour, ev.EndHour)
}

// busNotifier adapts the bus's fire-and-forget publish to the loop's
// Notifier. Publish never blocks, so cycle duration stays independent of
// channel latency.
type busNotifier struct {
	bus *eventbus.Bus
}

func (b busNotifier) Send(_ context.Context, ev model.NotificationEvent) error {
	b.bus.Publish(ev)
	return nil
}
