package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"

	"pkt.systems/pslog"
	"pkt.systems/rolepost/core"
	"pkt.systems/rolepost/internal/logx"
	"pkt.systems/rolepost/schema"
)

// DefaultEmbedColor is used when a persona has no color configured.
const DefaultEmbedColor = 0x3498db

// MakeEmbed renders content under the persona that owns roleID. A role no
// persona lists gets a bare embed whose footer names the role.
func MakeEmbed(content string, roleID schema.RoleID, catalog *core.Catalog, attachmentURL string) *discordgo.MessageEmbed {
	persona, ok := catalog.Lookup(roleID)
	if !ok {
		return &discordgo.MessageEmbed{
			Description: content,
			Footer:      &discordgo.MessageEmbedFooter{Text: "ROLE_ID:" + string(roleID) + " (未定義)"},
		}
	}
	color := persona.EmbedColor
	if color == 0 {
		color = DefaultEmbedColor
	}
	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    authorName(persona),
			IconURL: persona.EmbedIcon,
		},
		Description: content,
		Color:       color,
	}
	if attachmentURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: attachmentURL}
	}
	return embed
}

func (b *Bot) onMessageCreate(ctx context.Context, m *discordgo.MessageCreate) {
	if !b.relay || m == nil || m.Message == nil || m.Author == nil || m.Author.Bot {
		return
	}
	channelID := schema.ChannelID(m.ChannelID)
	userID := schema.UserID(m.Author.ID)
	ctx = logx.ContextWithChannelUserLogger(ctx, logx.WithChannelUser(ctx, channelID, userID), channelID, userID)
	roleID, ok := b.service.ActiveRole(ctx, channelID, userID)
	if !ok {
		return
	}
	log := pslog.Ctx(ctx).With("role", roleID)
	image := firstImageURL(m.Attachments)
	if strings.TrimSpace(m.Content) == "" && image == "" {
		log.Debug("rolepost relay skipped", "reason", "empty message")
		return
	}
	embed := MakeEmbed(m.Content, roleID, b.service.Catalog(), image)
	if embed.Author == nil {
		log.Warn("rolepost relay unknown role")
	}
	if _, err := b.api.ChannelMessageSendEmbed(m.ChannelID, embed, discordgo.WithContext(ctx)); err != nil {
		log.Warn("rolepost relay send failed", "err", err)
		return
	}
	if err := b.api.ChannelMessageDelete(m.ChannelID, m.ID, discordgo.WithContext(ctx)); err != nil {
		log.Warn("rolepost relay delete failed", "err", err)
		return
	}
	log.Debug("rolepost relay posted", "message", m.ID)
}

// authorName never returns an empty string; Discord rejects nameless authors.
func authorName(p schema.Persona) string {
	for _, name := range []string{p.EmbedName, p.Label, string(p.Kind)} {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	return "rolepost"
}

func firstImageURL(attachments []*discordgo.MessageAttachment) string {
	for _, a := range attachments {
		if a != nil && strings.HasPrefix(a.ContentType, "image/") {
			return a.URL
		}
	}
	return ""
}
