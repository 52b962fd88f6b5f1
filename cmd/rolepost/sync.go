package main

import (
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/rolepost/internal/appconfig"
	"pkt.systems/rolepost/internal/discord"
	"pkt.systems/rolepost/internal/membersync"
	"pkt.systems/rolepost/schema"
)

func newSyncCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push every guild member to the citizen directory once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			if cfg.Sync.UpsertURL == "" {
				return errUpsertURLRequired
			}
			session, err := discord.NewSession(cfg.Discord.Token)
			if err != nil {
				return err
			}
			logger := pslog.Ctx(cmd.Context())
			once := cfg.Sync
			once.IntervalMinutes = 0
			syncer, err := newSyncer(once, discord.NewMemberDirectory(session), logger)
			if err != nil {
				return err
			}
			result, err := syncer.FullSync(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("sync finished", "run", result.RunID, "synced", result.Synced, "failed", result.Failed)
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	return cmd
}

func newSyncer(cfg appconfig.SyncConfig, lister membersync.MemberLister, logger pslog.Logger) (*membersync.Syncer, error) {
	return membersync.New(membersync.Config{
		GuildID:        schema.GuildID(cfg.GuildID),
		DiplomatRoleID: schema.RoleID(cfg.DiplomatRoleID),
		UpsertURL:      cfg.UpsertURL,
		APIToken:       cfg.APIToken,
		MemberLimit:    cfg.MemberLimit,
		Throttle:       time.Duration(cfg.ThrottleMillis) * time.Millisecond,
		Jitter:         time.Duration(cfg.JitterMillis) * time.Millisecond,
		Interval:       time.Duration(cfg.IntervalMinutes) * time.Minute,
	}, lister, logger)
}
