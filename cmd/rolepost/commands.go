package main

import (
	"errors"

	"github.com/spf13/cobra"

	"pkt.systems/rolepost/internal/appconfig"
	"pkt.systems/rolepost/internal/discord"
)

var (
	errApplicationIDRequired = errors.New("discord.application_id is required")
	errUpsertURLRequired     = errors.New("sync.upsert_url is required")
)

func newCommandsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "Manage registered slash commands",
	}
	cmd.AddCommand(newCommandsDeployCmd())
	cmd.AddCommand(newCommandsClearCmd())
	return cmd
}

func newCommandsDeployCmd() *cobra.Command {
	var cfgPath string
	var guild bool
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Replace the registered slash commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, guildID, err := loadCommandScope(cfgPath, guild)
			if err != nil {
				return err
			}
			session, err := discord.NewSession(cfg.Discord.Token)
			if err != nil {
				return err
			}
			_, err = discord.DeployCommands(cmd.Context(), session, cfg.Discord.ApplicationID, guildID)
			return err
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&guild, "guild", false, "register in discord.guild_id instead of globally")
	return cmd
}

func newCommandsClearCmd() *cobra.Command {
	var cfgPath string
	var guild bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every registered slash command",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, guildID, err := loadCommandScope(cfgPath, guild)
			if err != nil {
				return err
			}
			session, err := discord.NewSession(cfg.Discord.Token)
			if err != nil {
				return err
			}
			return discord.ClearCommands(cmd.Context(), session, cfg.Discord.ApplicationID, guildID)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&guild, "guild", false, "clear discord.guild_id instead of the global scope")
	return cmd
}

func loadCommandScope(cfgPath string, guild bool) (appconfig.Config, string, error) {
	cfg, err := appconfig.Load(cfgPath)
	if err != nil {
		return appconfig.Config{}, "", err
	}
	if cfg.Discord.ApplicationID == "" {
		return appconfig.Config{}, "", errApplicationIDRequired
	}
	guildID := ""
	if guild {
		if cfg.Discord.GuildID == "" {
			return appconfig.Config{}, "", errors.New("discord.guild_id is required with --guild")
		}
		guildID = cfg.Discord.GuildID
	}
	return cfg, guildID, nil
}
