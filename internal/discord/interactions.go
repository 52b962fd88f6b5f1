package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"pkt.systems/pslog"
	"pkt.systems/rolepost/internal/command"
	"pkt.systems/rolepost/internal/logx"
	"pkt.systems/rolepost/schema"
)

func (b *Bot) onInteractionCreate(ctx context.Context, i *discordgo.InteractionCreate) {
	if i == nil || i.Interaction == nil {
		return
	}
	ctx = logx.ContextWithLogger(ctx, logx.WithInteraction(pslog.Ctx(ctx), i.ID))
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if command.Handles(i.ApplicationCommandData().Name) {
			b.handleToggle(ctx, i.Interaction)
		}
	case discordgo.InteractionMessageComponent:
		if command.HandlesComponent(i.MessageComponentData().CustomID) {
			b.handleChoice(ctx, i.Interaction)
		}
	}
}

func (b *Bot) handleToggle(ctx context.Context, i *discordgo.Interaction) {
	ctx = withRequestLogger(ctx, i)
	log := pslog.Ctx(ctx)
	deferred := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}
	if err := b.api.InteractionRespond(i, deferred, discordgo.WithContext(ctx)); err != nil {
		log.Warn("discord interaction defer failed", "err", err)
		return
	}
	req := schema.ToggleRequest{
		ChannelID: schema.ChannelID(i.ChannelID),
		UserID:    interactionUserID(i),
		Roles:     b.roleGrants(i),
	}
	reply := b.handler.Toggle(ctx, req)
	content := reply.Content
	components := replyComponents(reply)
	edit := &discordgo.WebhookEdit{Content: &content, Components: &components}
	if _, err := b.api.InteractionResponseEdit(i, edit, discordgo.WithContext(ctx)); err != nil {
		log.Warn("discord interaction edit failed", "err", err)
	}
}

func (b *Bot) handleChoice(ctx context.Context, i *discordgo.Interaction) {
	ctx = withRequestLogger(ctx, i)
	data := i.MessageComponentData()
	req := schema.ChoiceRequest{
		Token:       data.CustomID,
		ResponderID: interactionUserID(i),
	}
	if len(data.Values) > 0 {
		req.RoleID = schema.RoleID(data.Values[0])
	}
	reply := b.handler.Choose(ctx, req)
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: reply.Content},
	}
	if reply.Update {
		resp.Type = discordgo.InteractionResponseUpdateMessage
		resp.Data.Components = []discordgo.MessageComponent{}
	}
	if reply.Ephemeral {
		resp.Data.Flags = discordgo.MessageFlagsEphemeral
	}
	if err := b.api.InteractionRespond(i, resp, discordgo.WithContext(ctx)); err != nil {
		pslog.Ctx(ctx).Warn("discord choice response failed", "err", err)
	}
}

// roleGrants prefers the member snapshot carried by the interaction and
// fetches the member only when the snapshot is missing.
func (b *Bot) roleGrants(i *discordgo.Interaction) schema.RoleGrants {
	if i.Member != nil && i.Member.Roles != nil {
		return toRoleIDs(i.Member.Roles)
	}
	guildID := i.GuildID
	userID := string(interactionUserID(i))
	return schema.RoleGrantsFunc(func(ctx context.Context) ([]schema.RoleID, error) {
		if guildID == "" || userID == "" {
			return nil, fmt.Errorf("%w: no guild member context", schema.ErrUpstreamUnavailable)
		}
		member, err := b.api.GuildMember(guildID, userID, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("%w: fetch member: %w", schema.ErrUpstreamUnavailable, err)
		}
		return toRoleIDs(member.Roles), nil
	})
}

// withRequestLogger binds a channel and user annotated logger so downstream
// layers do not repeat the fields.
func withRequestLogger(ctx context.Context, i *discordgo.Interaction) context.Context {
	channelID := schema.ChannelID(i.ChannelID)
	userID := interactionUserID(i)
	return logx.ContextWithChannelUserLogger(ctx, logx.WithChannelUser(ctx, channelID, userID), channelID, userID)
}

func interactionUserID(i *discordgo.Interaction) schema.UserID {
	if i.Member != nil && i.Member.User != nil {
		return schema.UserID(i.Member.User.ID)
	}
	if i.User != nil {
		return schema.UserID(i.User.ID)
	}
	return ""
}

func toRoleIDs(roles []string) schema.StaticRoleGrants {
	out := make(schema.StaticRoleGrants, 0, len(roles))
	for _, id := range roles {
		out = append(out, schema.RoleID(id))
	}
	return out
}

// replyComponents renders the reply menu as a single action row. A reply
// without a menu yields an empty list so edits clear earlier components.
func replyComponents(reply command.Reply) []discordgo.MessageComponent {
	if reply.Menu == nil {
		return []discordgo.MessageComponent{}
	}
	options := make([]discordgo.SelectMenuOption, 0, len(reply.Menu.Options))
	for _, opt := range reply.Menu.Options {
		option := discordgo.SelectMenuOption{
			Label: opt.Label,
			Value: string(opt.RoleID),
		}
		if opt.Emoji != "" {
			option.Emoji = &discordgo.ComponentEmoji{Name: opt.Emoji}
		}
		options = append(options, option)
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    reply.Menu.CustomID,
				Placeholder: reply.Menu.Placeholder,
				Options:     options,
			},
		}},
	}
}
