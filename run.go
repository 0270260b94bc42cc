package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"overseer/internal/bot"
	"overseer/internal/common"
	"overseer/internal/config"
	"overseer/internal/events"
	"overseer/internal/health"
	"overseer/internal/keepalive"
	"overseer/internal/status"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to discord and serve commands (default)",
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, _ []string) error {

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	database, err := common.OpenDatabase(openCtx, cfg.DSN())
	if err != nil {
		return err
	}
	defer database.Close()
	registry := bot.NewDatabaseBot(database)
	if err := registry.EnsureSchema(openCtx); err != nil {
		return err
	}
	log.Info().Msg("Database ready")

	// Status checks
	var checker bot.StatusChecker
	linkOnly := cfg.Status.Engine == config.EngineLink
	if !linkOnly {
		engine, ok := status.NewEngine(cfg.Status.Engine, cfg.Status.ChromePath)
		if !ok {
			return fmt.Errorf("unknown status engine %q", cfg.Status.Engine)
		}
		checker = status.NewResolver(engine)
	}
	log.Info().Msgf("Status checks use the %s engine", cfg.Status.Engine)

	discordBot := bot.NewBot(bot.Settings{
		Token:         cfg.Discord.Token,
		Prefix:        cfg.Discord.Prefix,
		EventRoleName: cfg.Discord.EventRoleName,
		Query:         cfg.Query(),
		Resolver:      cfg.Resolver(),
		LinkOnly:      linkOnly,
		Restrictions:  cfg.Status.Restrictions,
	}, registry, checker, events.Default())

	// The first one to fail stops the others
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return health.NewServer(cfg.Server.Port).Run(ctx)
	})
	group.Go(func() error {
		return keepalive.NewPinger(cfg.KeepAlive.URL, cfg.KeepAlive.Interval).Run(ctx)
	})
	group.Go(func() error {
		return discordBot.Run(ctx)
	})

	err = group.Wait()
	log.Info().Msg("Overseer stopped")
	return err
}
