package core

import (
	"context"
	"errors"
	"fmt"

	"pkt.systems/pslog"
	"pkt.systems/rolepost/internal/logx"
	"pkt.systems/rolepost/schema"
)

// service implements the speaking-mode state machine:
// inactive -> (awaiting choice) -> active -> inactive.
// Awaiting choice is never stored; it lives in the correlation token of the
// prompt handed to the user.
type service struct {
	cfg     schema.ServiceConfig
	catalog *Catalog
	store   SessionStore
	logger  pslog.Logger
}

// NewService constructs the core service implementation.
func NewService(cfg schema.ServiceConfig, deps ServiceDeps) (Service, error) {
	normalized, err := schema.NormalizeServiceConfig(cfg)
	if err != nil {
		return nil, err
	}
	cfg = normalized
	if deps.Store == nil {
		deps.Store = NewMemoryStore()
	}
	return &service{
		cfg:     cfg,
		catalog: NewCatalog(cfg.Personas),
		store:   deps.Store,
		logger:  deps.Logger,
	}, nil
}

func (s *service) Catalog() *Catalog {
	return s.catalog
}

func (s *service) ActiveRole(_ context.Context, channelID schema.ChannelID, userID schema.UserID) (schema.RoleID, bool) {
	return s.store.ActiveRole(channelID, userID)
}

func (s *service) Toggle(ctx context.Context, req schema.ToggleRequest) (schema.Outcome, error) {
	if ctx == nil {
		return failedOutcome(schema.ErrInvalidRequest), errors.New("missing context")
	}
	ctx = logx.ContextWithFallback(ctx, s.logger)
	if err := schema.ValidateChannelID(req.ChannelID); err != nil {
		return failedOutcome(schema.ErrInvalidRequest), fmt.Errorf("channel id %q: %w", req.ChannelID, err)
	}
	if err := schema.ValidateUserID(req.UserID); err != nil {
		return failedOutcome(schema.ErrInvalidRequest), fmt.Errorf("user id %q: %w", req.UserID, err)
	}
	log := logx.WithChannelUser(ctx, req.ChannelID, req.UserID)
	if !s.cfg.DisableAuditLogging {
		log.Debug("audit command", "command_type", "toggle")
	}

	if roleID, ok := s.store.ActiveRole(req.ChannelID, req.UserID); ok {
		s.store.Deactivate(req.ChannelID, req.UserID)
		log.Info("speaking mode deactivated", "role", roleID)
		return schema.Outcome{Kind: schema.OutcomeDeactivated}, nil
	}

	if req.Roles == nil {
		log.Warn("speaking mode toggle failed", "reason", "missing role grants")
		return failedOutcome(schema.ErrUpstreamUnavailable), fmt.Errorf("role grants: %w", schema.ErrUpstreamUnavailable)
	}
	roleIDs, err := req.Roles.RoleIDs(ctx)
	if err != nil {
		log.Warn("speaking mode toggle failed", "reason", "role lookup", "err", err)
		return failedOutcome(schema.ErrUpstreamUnavailable), fmt.Errorf("role grants: %w: %w", schema.ErrUpstreamUnavailable, err)
	}

	matches := Resolve(roleIDs, s.catalog)
	log = log.With("roles", len(roleIDs), "matches", len(matches))
	switch len(matches) {
	case 0:
		log.Info("speaking mode not eligible")
		return schema.Outcome{Kind: schema.OutcomeNotEligible, Reason: schema.ErrNotEligible}, nil
	case 1:
		match := matches[0]
		s.store.Activate(req.ChannelID, req.UserID, match.RoleID)
		log.Info("speaking mode activated", "role", match.RoleID, "persona", match.Persona.Kind)
		return schema.Outcome{Kind: schema.OutcomeActivated, Persona: schema.OptionFor(match.Persona)}, nil
	}

	token, err := EncodeChoiceToken(req.ChannelID, req.UserID)
	if err != nil {
		return failedOutcome(schema.ErrInvalidRequest), err
	}
	choices := make([]schema.PersonaOption, 0, len(matches))
	for _, match := range matches {
		choices = append(choices, schema.OptionFor(match.Persona))
	}
	log.Info("speaking mode awaiting choice")
	return schema.Outcome{Kind: schema.OutcomeAwaitingChoice, Choices: choices, Token: token}, nil
}

func (s *service) Choose(ctx context.Context, req schema.ChoiceRequest) (schema.Outcome, error) {
	if ctx == nil {
		return failedOutcome(schema.ErrInvalidRequest), errors.New("missing context")
	}
	ctx = logx.ContextWithFallback(ctx, s.logger)
	log := logx.WithUser(ctx, req.ResponderID)
	channelID, userID, err := DecodeChoiceToken(req.Token)
	if err != nil {
		log.Warn("speaking mode choice rejected", "reason", "token", "token", req.Token)
		return rejectedOutcome(schema.ErrInvalidToken), nil
	}
	log = logx.WithChannelUser(ctx, channelID, userID)
	if !s.cfg.DisableAuditLogging {
		log.Debug("audit command", "command_type", "choice", "responder", req.ResponderID, "role", req.RoleID)
	}
	if req.ResponderID != userID {
		log.Warn("speaking mode choice rejected", "reason", "responder", "responder", req.ResponderID)
		return rejectedOutcome(schema.ErrUnauthorized), nil
	}
	persona, ok := s.catalog.Lookup(req.RoleID)
	if !ok {
		log.Warn("speaking mode choice rejected", "reason", "unknown role", "role", req.RoleID)
		return rejectedOutcome(schema.ErrUnknownPersona), nil
	}
	s.store.Activate(channelID, userID, req.RoleID)
	log.Info("speaking mode activated", "role", req.RoleID, "persona", persona.Kind)
	option := schema.OptionFor(persona)
	option.RoleID = req.RoleID
	return schema.Outcome{Kind: schema.OutcomeActivated, Persona: option}, nil
}

func failedOutcome(reason error) schema.Outcome {
	return schema.Outcome{Kind: schema.OutcomeFailed, Reason: reason}
}

func rejectedOutcome(reason error) schema.Outcome {
	return schema.Outcome{Kind: schema.OutcomeRejected, Reason: reason}
}
