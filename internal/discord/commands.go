package discord

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"

	"pkt.systems/pslog"
	"pkt.systems/rolepost/internal/command"
)

// Commands returns the application command set owned by this bot.
func Commands() []*discordgo.ApplicationCommand {
	dm := false
	return []*discordgo.ApplicationCommand{
		{
			Name:         command.Name,
			Description:  command.Description,
			DMPermission: &dm,
		},
	}
}

// DeployCommands clears the registered commands and then registers the
// current set. An empty guildID targets the global scope.
func DeployCommands(ctx context.Context, api CommandAPI, appID, guildID string) (int, error) {
	if err := ClearCommands(ctx, api, appID, guildID); err != nil {
		return 0, err
	}
	log := pslog.Ctx(ctx).With("app", appID, "guild", guildID)
	log.Info("discord commands deploy start")
	created, err := api.ApplicationCommandBulkOverwrite(appID, guildID, Commands(), discordgo.WithContext(ctx))
	if err != nil {
		return 0, err
	}
	log.Info("discord commands deploy done", "count", len(created))
	return len(created), nil
}

// ClearCommands removes every registered command in the scope.
func ClearCommands(ctx context.Context, api CommandAPI, appID, guildID string) error {
	if api == nil {
		return errors.New("command api is required")
	}
	if appID == "" {
		return errors.New("application id is required")
	}
	if _, err := api.ApplicationCommandBulkOverwrite(appID, guildID, []*discordgo.ApplicationCommand{}, discordgo.WithContext(ctx)); err != nil {
		return err
	}
	pslog.Ctx(ctx).Info("discord commands cleared", "app", appID, "guild", guildID)
	return nil
}
