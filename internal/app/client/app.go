// Package client assembles the client application: local store, outbox,
// connectivity monitoring, sync coordinator and the domain services on top.
package client

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"heybuddy/internal/app/client/config"
	"heybuddy/internal/app/client/credentials"
	"heybuddy/internal/connectivity"
	"heybuddy/internal/domain/note"
	"heybuddy/internal/domain/schedule"
	"heybuddy/internal/domain/settings"
	"heybuddy/internal/domain/task"
	"heybuddy/internal/domain/transcript"
	"heybuddy/internal/gateway"
	"heybuddy/internal/outbox"
	"heybuddy/internal/store"
	syncer "heybuddy/internal/sync"
	"heybuddy/internal/utils/logger"
)

type App struct {
	Config      *config.Config
	Log         *slog.Logger
	Store       *store.Store
	Queue       *outbox.Queue
	Monitor     *connectivity.Monitor
	Transport   syncer.Transport
	Coordinator *syncer.Coordinator
	Gateway     *gateway.Gateway
	Credentials *credentials.Store
	Settings    *settings.Service

	Notes       *note.Service
	Tasks       *task.Service
	Schedules   *schedule.Service
	Transcripts *transcript.Service

	prober *connectivity.Prober
	cancel context.CancelFunc
}

// New wires every component together. Nothing starts running until Start is
// called; a freshly built App is safe to use for purely local operations.
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = logger.New(cfg.Env)
	}

	st, err := store.Open(cfg.DataPath, log)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	queue, err := outbox.New(st.DB(), log)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("open outbox: %w", err)
	}

	creds := credentials.NewStore(cfg.KeyPath, cfg.TokenPath)

	var transport syncer.Transport
	if cfg.OfflineMode {
		transport = syncer.LocalTransport{}
	} else {
		transport = syncer.NewHTTPTransport(cfg.ServerAddress, func() string {
			token, err := creds.Token()
			if err != nil {
				return ""
			}
			return token
		}, log)
	}

	// LocalTransport always succeeds, so offline mode runs as permanently
	// online. With a real server the prober flips the state.
	monitor := connectivity.NewMonitor(cfg.OfflineMode)
	settingsSvc := settings.NewService(st)

	coordinator := syncer.NewCoordinator(st, queue, monitor, transport, settingsSvc, syncer.Config{
		RetryLimit:     cfg.RetryLimit,
		AttemptTimeout: cfg.AttemptTimeout(),
	}, log)

	gw := gateway.New(st, queue, monitor, transport, cfg.AttemptTimeout(), log)

	app := &App{
		Config:      cfg,
		Log:         log,
		Store:       st,
		Queue:       queue,
		Monitor:     monitor,
		Transport:   transport,
		Coordinator: coordinator,
		Gateway:     gw,
		Credentials: creds,
		Settings:    settingsSvc,
		Notes:       note.NewService(gw, st),
		Tasks:       task.NewService(gw, st),
		Schedules:   schedule.NewService(gw, st),
		Transcripts: transcript.NewService(gw, st),
	}

	if !cfg.OfflineMode {
		app.prober = connectivity.NewProber(monitor, transport, cfg.ProbeInterval(),
			cfg.AttemptTimeout(), log)
	}

	return app, nil
}

// Start launches connectivity probing and drain-on-reconnect. Offline mode
// skips both.
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	a.Coordinator.Start(ctx)
	if a.prober != nil {
		go a.prober.Run(ctx)
	}
}

func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}
	a.Coordinator.Stop()
	return a.Store.Close()
}
