package notify

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Poller raises the signal on a cron schedule, as a fallback for missed
// push notifications.
type Poller struct {
	cron *cron.Cron
}

func NewPoller(spec string, sig *Signal, logger *zap.Logger) (*Poller, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		logger.Debug("scheduled booking refresh")
		sig.Notify()
	}); err != nil {
		return nil, fmt.Errorf("refresh schedule %q: %w", spec, err)
	}
	return &Poller{cron: c}, nil
}

func (p *Poller) Start() { p.cron.Start() }

// Stop halts the schedule; the returned context is done once a running
// job, if any, has finished.
func (p *Poller) Stop() context.Context { return p.cron.Stop() }
