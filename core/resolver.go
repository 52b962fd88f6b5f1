package core

import "pkt.systems/rolepost/schema"

// Resolve lists the personas the holder of userRoleIDs may speak as.
//
// Every persona whose configured roles intersect userRoleIDs qualifies and is
// represented by its first configured role id. Personas sharing a
// representative id collapse onto the earliest one. The result follows
// catalog order; an empty result means no persona qualifies.
func Resolve(userRoleIDs []schema.RoleID, catalog *Catalog) []schema.PersonaMatch {
	if catalog == nil || len(userRoleIDs) == 0 {
		return nil
	}
	held := make(map[schema.RoleID]struct{}, len(userRoleIDs))
	for _, id := range userRoleIDs {
		held[id] = struct{}{}
	}
	var matches []schema.PersonaMatch
	seen := make(map[schema.RoleID]struct{})
	for _, persona := range catalog.personas {
		rep := persona.RepresentativeRoleID()
		if rep == "" || !intersects(persona.RoleIDs, held) {
			continue
		}
		if _, dup := seen[rep]; dup {
			continue
		}
		seen[rep] = struct{}{}
		matches = append(matches, schema.PersonaMatch{Persona: persona, RoleID: rep})
	}
	return matches
}

func intersects(roleIDs []schema.RoleID, held map[schema.RoleID]struct{}) bool {
	for _, id := range roleIDs {
		if _, ok := held[id]; ok {
			return true
		}
	}
	return false
}
