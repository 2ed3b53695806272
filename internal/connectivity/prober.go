package connectivity

import (
	"context"
	"time"

	"golang.org/x/exp/slog"
)

// Pinger is the slice of the sync transport the prober needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Prober polls the remote endpoint and feeds the result into the monitor.
type Prober struct {
	monitor  *Monitor
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	log      *slog.Logger
}

func NewProber(monitor *Monitor, pinger Pinger, interval, timeout time.Duration, log *slog.Logger) *Prober {
	return &Prober{
		monitor:  monitor,
		pinger:   pinger,
		interval: interval,
		timeout:  timeout,
		log:      log,
	}
}

// Run probes immediately, then on every tick until ctx is cancelled. It is
// meant to be called in a goroutine owned by the app.
func (p *Prober) Run(ctx context.Context) {
	p.probe(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.probe(ctx)
		}
	}
}

func (p *Prober) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.pinger.Ping(probeCtx)
	online := err == nil

	if p.log != nil && online != p.monitor.Online() {
		p.log.Info("connectivity changed", "online", online)
	}
	p.monitor.SetOnline(online)
}
