package discord

import (
	"errors"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"

	"pkt.systems/rolepost/core"
	"pkt.systems/rolepost/internal/command"
	"pkt.systems/rolepost/schema"
)

type fakeAPI struct {
	mu         sync.Mutex
	responses  []*discordgo.InteractionResponse
	edits      []*discordgo.WebhookEdit
	embeds     []*discordgo.MessageEmbed
	deleted    []string
	members    map[string]*discordgo.Member
	memberErr  error
	memberHits int
	sendErr    error
}

func (f *fakeAPI) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeAPI) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, edit)
	return &discordgo.Message{}, nil
}

func (f *fakeAPI) GuildMember(_ string, userID string, _ ...discordgo.RequestOption) (*discordgo.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.memberHits++
	if f.memberErr != nil {
		return nil, f.memberErr
	}
	member, ok := f.members[userID]
	if !ok {
		return nil, errors.New("unknown member")
	}
	return member, nil
}

func (f *fakeAPI) ChannelMessageSendEmbed(_ string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.embeds = append(f.embeds, embed)
	return &discordgo.Message{}, nil
}

func (f *fakeAPI) ChannelMessageDelete(_ string, messageID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func testPersonas() []schema.Persona {
	return []schema.Persona{
		{Kind: schema.PersonaDiplomat, Label: "外交官", RoleIDs: []schema.RoleID{"D1", "D2"}, Emoji: "🕊️", EmbedName: "外務省", EmbedIcon: "https://example.test/d.png", EmbedColor: 0x112233},
		{Kind: schema.PersonaMinister, Label: "閣僚会議議員", RoleIDs: []schema.RoleID{"M1"}, EmbedName: "閣僚会議"},
		{Kind: schema.PersonaExaminer, Label: "入国審査担当官", RoleIDs: []schema.RoleID{"E1"}},
	}
}

func newTestBot(t *testing.T, api *fakeAPI) (*Bot, *core.MemoryStore) {
	t.Helper()
	store := core.NewMemoryStore()
	svc, err := core.NewService(schema.ServiceConfig{Personas: testPersonas()}, core.ServiceDeps{Store: store})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return newBot(api, svc, command.NewHandler(svc), true), store
}

func commandInteraction(channelID, userID string, roles []string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "i-" + userID,
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   "G",
		ChannelID: channelID,
		Data:      discordgo.ApplicationCommandInteractionData{Name: command.Name},
		Member:    &discordgo.Member{User: &discordgo.User{ID: userID}, Roles: roles},
	}}
}

func choiceInteraction(customID, userID string, values ...string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "c-" + userID,
		Type:      discordgo.InteractionMessageComponent,
		GuildID:   "G",
		ChannelID: "C",
		Data: discordgo.MessageComponentInteractionData{
			CustomID:      customID,
			ComponentType: discordgo.SelectMenuComponent,
			Values:        values,
		},
		Member: &discordgo.Member{User: &discordgo.User{ID: userID}},
	}}
}
