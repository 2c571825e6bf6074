// Package app runs the HTTP API and, when configured, the Telegram bot until
// the process is asked to stop.
package app

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/vladimiradmaev/fitscan-coach/internal/api"
	"github.com/vladimiradmaev/fitscan-coach/internal/bot"
	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
)

type App struct {
	server *api.Server
	bot    *bot.Bot
}

// NewApp wires the front ends. bot may be nil when no Telegram token is set.
func NewApp(server *api.Server, b *bot.Bot) *App {
	return &App{server: server, bot: b}
}

func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.server.Run(ctx)
	})

	if a.bot != nil {
		g.Go(func() error {
			err := a.bot.Start(ctx)
			a.bot.Stop()
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	} else {
		logger.Info("Telegram token not set, bot disabled")
	}

	return g.Wait()
}
