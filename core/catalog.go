package core

import "pkt.systems/rolepost/schema"

// Catalog is the ordered, read-only set of personas. Earlier entries win ties.
type Catalog struct {
	personas []schema.Persona
}

// NewCatalog builds a catalog from personas in priority order.
func NewCatalog(personas []schema.Persona) *Catalog {
	out := make([]schema.Persona, len(personas))
	for i, p := range personas {
		p.RoleIDs = append([]schema.RoleID(nil), p.RoleIDs...)
		out[i] = p
	}
	return &Catalog{personas: out}
}

// Personas returns a copy of the catalog entries.
func (c *Catalog) Personas() []schema.Persona {
	if c == nil {
		return nil
	}
	out := make([]schema.Persona, len(c.personas))
	copy(out, c.personas)
	return out
}

// Lookup returns the first persona, in priority order, that lists roleID.
func (c *Catalog) Lookup(roleID schema.RoleID) (schema.Persona, bool) {
	if c == nil || roleID == "" {
		return schema.Persona{}, false
	}
	for _, p := range c.personas {
		if p.HasRole(roleID) {
			return p, true
		}
	}
	return schema.Persona{}, false
}
