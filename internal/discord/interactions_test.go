package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"

	"pkt.systems/pslog"
	"pkt.systems/rolepost/internal/command"
	"pkt.systems/rolepost/schema"
)

func TestToggleDefersThenEditsReply(t *testing.T) {
	api := &fakeAPI{}
	bot, store := newTestBot(t, api)

	bot.onInteractionCreate(context.Background(), commandInteraction("C", "U", []string{"M1"}))

	if len(api.responses) != 1 {
		t.Fatalf("expected one deferred response, got %d", len(api.responses))
	}
	deferred := api.responses[0]
	if deferred.Type != discordgo.InteractionResponseDeferredChannelMessageWithSource {
		t.Fatalf("unexpected response type %v", deferred.Type)
	}
	if deferred.Data == nil || deferred.Data.Flags&discordgo.MessageFlagsEphemeral == 0 {
		t.Fatalf("expected ephemeral defer")
	}
	if len(api.edits) != 1 {
		t.Fatalf("expected one edit, got %d", len(api.edits))
	}
	edit := api.edits[0]
	if edit.Content == nil || *edit.Content != "役職発言モードを **ON** にしました。（閣僚会議議員）" {
		t.Fatalf("unexpected edit content %v", edit.Content)
	}
	if edit.Components == nil || len(*edit.Components) != 0 {
		t.Fatalf("expected cleared components, got %v", edit.Components)
	}
	if got, ok := store.ActiveRole("C", "U"); !ok || got != "M1" {
		t.Fatalf("expected M1 session, got %q", got)
	}
}

func TestToggleMultipleRolesSendsSelectMenu(t *testing.T) {
	api := &fakeAPI{}
	bot, store := newTestBot(t, api)

	bot.onInteractionCreate(context.Background(), commandInteraction("C", "U", []string{"D2", "E1"}))

	if store.Len() != 0 {
		t.Fatalf("expected no session before choice")
	}
	edit := api.edits[0]
	if edit.Components == nil || len(*edit.Components) != 1 {
		t.Fatalf("expected one action row, got %v", edit.Components)
	}
	row, ok := (*edit.Components)[0].(discordgo.ActionsRow)
	if !ok || len(row.Components) != 1 {
		t.Fatalf("unexpected row %#v", (*edit.Components)[0])
	}
	menu, ok := row.Components[0].(discordgo.SelectMenu)
	if !ok {
		t.Fatalf("expected select menu, got %#v", row.Components[0])
	}
	if menu.CustomID != "rolepost-choose-C-U" {
		t.Fatalf("unexpected custom id %q", menu.CustomID)
	}
	if len(menu.Options) != 2 {
		t.Fatalf("expected two options, got %d", len(menu.Options))
	}
	if menu.Options[0].Value != "D1" || menu.Options[0].Emoji == nil || menu.Options[0].Emoji.Name != "🕊️" {
		t.Fatalf("unexpected diplomat option %+v", menu.Options[0])
	}
	if menu.Options[1].Value != "E1" || menu.Options[1].Emoji != nil {
		t.Fatalf("unexpected examiner option %+v", menu.Options[1])
	}
}

func TestChoiceUpdatesMessageInPlace(t *testing.T) {
	api := &fakeAPI{}
	bot, store := newTestBot(t, api)

	bot.onInteractionCreate(context.Background(), choiceInteraction("rolepost-choose-C-U", "U", "E1"))

	if len(api.responses) != 1 {
		t.Fatalf("expected one response, got %d", len(api.responses))
	}
	resp := api.responses[0]
	if resp.Type != discordgo.InteractionResponseUpdateMessage {
		t.Fatalf("expected update response, got %v", resp.Type)
	}
	if resp.Data.Components == nil || len(resp.Data.Components) != 0 {
		t.Fatalf("expected components cleared")
	}
	if resp.Data.Flags&discordgo.MessageFlagsEphemeral != 0 {
		t.Fatalf("update must not carry ephemeral flag")
	}
	if got, _ := store.ActiveRole("C", "U"); got != "E1" {
		t.Fatalf("expected E1 session, got %q", got)
	}
}

func TestChoiceFromOtherUserRepliesEphemerally(t *testing.T) {
	api := &fakeAPI{}
	bot, store := newTestBot(t, api)

	bot.onInteractionCreate(context.Background(), choiceInteraction("rolepost-choose-C-U", "X", "D1"))

	resp := api.responses[0]
	if resp.Type != discordgo.InteractionResponseChannelMessageWithSource {
		t.Fatalf("expected new message response, got %v", resp.Type)
	}
	if resp.Data.Flags&discordgo.MessageFlagsEphemeral == 0 {
		t.Fatalf("expected ephemeral rejection")
	}
	if resp.Data.Content != command.DefaultMessages().Unauthorized {
		t.Fatalf("unexpected content %q", resp.Data.Content)
	}
	if store.Len() != 0 {
		t.Fatalf("expected store untouched")
	}
}

func TestChoiceWithoutValueIsRejected(t *testing.T) {
	api := &fakeAPI{}
	bot, store := newTestBot(t, api)

	bot.onInteractionCreate(context.Background(), choiceInteraction("rolepost-choose-C-U", "U"))

	if api.responses[0].Data.Content != command.DefaultMessages().InvalidChoice {
		t.Fatalf("unexpected content %q", api.responses[0].Data.Content)
	}
	if store.Len() != 0 {
		t.Fatalf("expected store untouched")
	}
}

func TestForeignInteractionsAreIgnored(t *testing.T) {
	api := &fakeAPI{}
	bot, _ := newTestBot(t, api)

	other := commandInteraction("C", "U", []string{"D1"})
	other.Data = discordgo.ApplicationCommandInteractionData{Name: "status"}
	bot.onInteractionCreate(context.Background(), other)
	bot.onInteractionCreate(context.Background(), choiceInteraction("ticket-open", "U", "D1"))

	if len(api.responses) != 0 || len(api.edits) != 0 {
		t.Fatalf("expected no responses, got %d/%d", len(api.responses), len(api.edits))
	}
}

func TestRoleGrantsFetchesMemberWhenSnapshotMissing(t *testing.T) {
	api := &fakeAPI{members: map[string]*discordgo.Member{"U": {Roles: []string{"D1"}}}}
	bot, store := newTestBot(t, api)

	i := commandInteraction("C", "U", nil)
	bot.onInteractionCreate(context.Background(), i)

	if api.memberHits != 1 {
		t.Fatalf("expected member fetch, got %d", api.memberHits)
	}
	if got, _ := store.ActiveRole("C", "U"); got != "D1" {
		t.Fatalf("expected D1 session, got %q", got)
	}
}

func TestRoleGrantsFetchFailureIsUpstreamError(t *testing.T) {
	api := &fakeAPI{memberErr: errors.New("gateway timeout")}
	bot, store := newTestBot(t, api)

	i := commandInteraction("C", "U", nil)
	_, err := bot.roleGrants(i.Interaction).RoleIDs(context.Background())
	if !errors.Is(err, schema.ErrUpstreamUnavailable) {
		t.Fatalf("expected upstream error, got %v", err)
	}

	bot.onInteractionCreate(context.Background(), i)
	if *api.edits[0].Content != command.DefaultMessages().Failed {
		t.Fatalf("expected failure text, got %q", *api.edits[0].Content)
	}
	if store.Len() != 0 {
		t.Fatalf("expected store untouched")
	}
}

func TestInteractionUserIDFallsBackToUser(t *testing.T) {
	i := &discordgo.Interaction{User: &discordgo.User{ID: "dm-user"}}
	if got := interactionUserID(i); got != "dm-user" {
		t.Fatalf("expected dm-user, got %q", got)
	}
	if got := interactionUserID(&discordgo.Interaction{}); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
}

type logLines struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (l *logLines) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Write(p)
}

func (l *logLines) find(t *testing.T, message string) string {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range strings.Split(l.buf.String(), "\n") {
		entry := map[string]any{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry["msg"] == message || entry["message"] == message {
			return line
		}
	}
	t.Fatalf("no log entry %q in %s", message, l.buf.String())
	return ""
}

func TestToggleLogsCarryRequestFieldsOnce(t *testing.T) {
	lines := &logLines{}
	logger := pslog.NewWithOptions(lines, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		VerboseFields: true,
		MinLevel:      pslog.DebugLevel,
	})
	ctx := pslog.ContextWithLogger(context.Background(), logger)
	bot, _ := newTestBot(t, &fakeAPI{})

	bot.onInteractionCreate(ctx, commandInteraction("C", "U", []string{"M1"}))

	line := lines.find(t, "speaking mode activated")
	entry := map[string]any{}
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("parse log entry: %v", err)
	}
	if entry["interaction"] != "i-U" {
		t.Fatalf("expected interaction field in core log, got %s", line)
	}
	if n := strings.Count(line, `"channel"`); n != 1 {
		t.Fatalf("expected a single channel field, got %d in %s", n, line)
	}
	if n := strings.Count(line, `"user"`); n != 1 {
		t.Fatalf("expected a single user field, got %d in %s", n, line)
	}
}
