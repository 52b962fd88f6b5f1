package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ServiceConfig defines the persona catalog and behavior of the core service.
type ServiceConfig struct {
	// Personas in priority order.
	Personas []Persona
	// DisableAuditLogging disables audit trail debug logs for toggles and choices.
	DisableAuditLogging bool
}

// NormalizeServiceConfig applies defaults and validates the config.
func NormalizeServiceConfig(cfg ServiceConfig) (ServiceConfig, error) {
	if len(cfg.Personas) == 0 {
		return ServiceConfig{}, errors.New("at least one persona is required")
	}
	seen := make(map[PersonaKind]struct{}, len(cfg.Personas))
	personas := make([]Persona, 0, len(cfg.Personas))
	for _, p := range cfg.Personas {
		p.Kind = PersonaKind(strings.ToLower(strings.TrimSpace(string(p.Kind))))
		if p.Kind == "" {
			return ServiceConfig{}, errors.New("persona kind is required")
		}
		if _, ok := seen[p.Kind]; ok {
			return ServiceConfig{}, fmt.Errorf("duplicate persona kind %q", p.Kind)
		}
		seen[p.Kind] = struct{}{}
		p.Label = strings.TrimSpace(p.Label)
		if p.Label == "" {
			p.Label = string(p.Kind)
		}
		p.RoleIDs = append([]RoleID(nil), p.RoleIDs...)
		personas = append(personas, p)
	}
	cfg.Personas = personas
	return cfg, nil
}
