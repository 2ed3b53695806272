// Package types holds the context plumbing shared by the CLI subcommand
// packages.
package types

import (
	"context"
	"errors"

	"heybuddy/internal/app/client"
)

type ctxKey int

const appKey ctxKey = iota

var ErrNoApp = errors.New("application is not initialized")

func WithApp(ctx context.Context, app *client.App) context.Context {
	return context.WithValue(ctx, appKey, app)
}

func AppFrom(ctx context.Context) (*client.App, error) {
	app, ok := ctx.Value(appKey).(*client.App)
	if !ok || app == nil {
		return nil, ErrNoApp
	}
	return app, nil
}
