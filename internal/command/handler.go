package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pkt.systems/rolepost/core"
	"pkt.systems/rolepost/internal/logx"
	"pkt.systems/rolepost/schema"
)

const (
	// Name is the slash command that toggles speaking mode.
	Name = "rolepost"
	// Description is shown in the platform command picker.
	Description = "役職発言モードの ON / OFF を切り替えます（トグル式）"
)

// Menu is a single-choice select menu attached to a reply.
type Menu struct {
	CustomID    string
	Placeholder string
	Options     []schema.PersonaOption
}

// Reply is the platform-neutral response to an interaction.
type Reply struct {
	Content string
	// Ephemeral replies are visible to the invoking user only.
	Ephemeral bool
	// Update replaces the message carrying the answered menu.
	Update bool
	Menu   *Menu
}

// Handler turns speaking-mode interactions into replies. Every failure is
// rendered as a reply; nothing is returned to the caller as an error.
type Handler struct {
	service core.Service
	msgs    Messages
}

// NewHandler constructs a command handler.
func NewHandler(service core.Service) *Handler {
	return &Handler{service: service, msgs: DefaultMessages()}
}

// Handles reports whether a slash command name belongs to this handler.
func Handles(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), Name)
}

// HandlesComponent reports whether a component custom id belongs to this handler.
func HandlesComponent(customID string) bool {
	return core.IsChoiceToken(customID)
}

// Toggle handles the slash command.
func (h *Handler) Toggle(ctx context.Context, req schema.ToggleRequest) Reply {
	if ctx == nil {
		return h.failed()
	}
	log := logx.WithChannelUser(ctx, req.ChannelID, req.UserID)
	outcome, err := h.service.Toggle(ctx, req)
	if err != nil {
		log.Warn("command rolepost failed", "err", err)
		return h.failed()
	}
	reply := h.Render(outcome)
	reply.Ephemeral = true
	return reply
}

// Choose handles an answer to the persona select menu.
func (h *Handler) Choose(ctx context.Context, req schema.ChoiceRequest) Reply {
	if ctx == nil {
		return h.failed()
	}
	log := logx.WithUser(ctx, req.ResponderID)
	outcome, err := h.service.Choose(ctx, req)
	if err != nil {
		log.Warn("command rolepost choice failed", "err", err)
		return h.failed()
	}
	reply := h.Render(outcome)
	if outcome.Kind == schema.OutcomeActivated {
		reply.Update = true
	} else {
		reply.Ephemeral = true
	}
	return reply
}

// Render converts an outcome into reply content.
func (h *Handler) Render(outcome schema.Outcome) Reply {
	msgs := h.msgs
	switch outcome.Kind {
	case schema.OutcomeDeactivated:
		return Reply{Content: msgs.Deactivated}
	case schema.OutcomeNotEligible:
		return Reply{Content: msgs.NotEligible}
	case schema.OutcomeActivated:
		return Reply{Content: fmt.Sprintf(msgs.Activated, outcome.Persona.Label)}
	case schema.OutcomeAwaitingChoice:
		return Reply{
			Content: msgs.ChoosePrompt,
			Menu: &Menu{
				CustomID:    outcome.Token,
				Placeholder: msgs.ChoosePlacehold,
				Options:     append([]schema.PersonaOption(nil), outcome.Choices...),
			},
		}
	case schema.OutcomeRejected:
		if errors.Is(outcome.Reason, schema.ErrUnauthorized) {
			return Reply{Content: msgs.Unauthorized}
		}
		return Reply{Content: msgs.InvalidChoice}
	default:
		return Reply{Content: msgs.Failed}
	}
}

func (h *Handler) failed() Reply {
	return Reply{Content: h.msgs.Failed, Ephemeral: true}
}
