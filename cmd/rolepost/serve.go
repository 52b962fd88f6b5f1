package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"pkt.systems/pslog"
	"pkt.systems/rolepost/core"
	"pkt.systems/rolepost/internal/appconfig"
	"pkt.systems/rolepost/internal/command"
	"pkt.systems/rolepost/internal/discord"
	"pkt.systems/rolepost/internal/membersync"
	"pkt.systems/rolepost/schema"
)

func newServeCmd() *cobra.Command {
	var cfgPath string
	var disableAuditTrails bool
	var disableRelay bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Connect to Discord and handle /rolepost",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			if disableAuditTrails {
				cfg.Logging.DisableAuditTrails = true
			}
			ctx, closeRelay, err := withWebhookRelay(cmd.Context(), cfg.Logging)
			if err != nil {
				return err
			}
			defer closeRelay()
			logger := pslog.Ctx(ctx)

			service, err := newService(cfg, logger)
			if err != nil {
				return err
			}
			for _, p := range service.Catalog().Personas() {
				logger.Info("persona loaded", "kind", p.Kind, "roles", len(p.RoleIDs))
			}
			handler := command.NewHandler(service)
			bot, err := discord.New(discord.Config{Token: cfg.Discord.Token, DisableRelay: disableRelay}, service, handler)
			if err != nil {
				return err
			}

			var syncer *membersync.Syncer
			if cfg.Sync.Enabled {
				syncer, err = newSyncer(cfg.Sync, discord.NewMemberDirectory(bot.Session()), logger)
				if err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			group, ctx := errgroup.WithContext(ctx)
			group.Go(func() error {
				return bot.Run(ctx)
			})
			if syncer != nil {
				group.Go(func() error {
					return syncer.Run(ctx)
				})
			}
			if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Info("rolepost stopped")
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&disableAuditTrails, "disable-audit-trails", false, "disable audit trail logging for commands")
	cmd.Flags().BoolVar(&disableRelay, "no-relay", false, "do not re-post messages of active speakers as embeds")
	return cmd
}

func newService(cfg appconfig.Config, logger pslog.Logger) (core.Service, error) {
	return core.NewService(schema.ServiceConfig{
		Personas:            cfg.SchemaPersonas(),
		DisableAuditLogging: cfg.Logging.DisableAuditTrails,
	}, core.ServiceDeps{
		Store:  core.NewMemoryStore(),
		Logger: logger,
	})
}
