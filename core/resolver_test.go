package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"pkt.systems/rolepost/schema"
)

func matchedRoles(matches []schema.PersonaMatch) []schema.RoleID {
	out := make([]schema.RoleID, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.RoleID)
	}
	return out
}

func TestResolve(t *testing.T) {
	catalog := NewCatalog(testPersonas())
	tests := []struct {
		name  string
		roles []schema.RoleID
		want  []schema.RoleID
	}{
		{name: "none", roles: nil, want: []schema.RoleID{}},
		{name: "unconfigured", roles: []schema.RoleID{"X1", "X2"}, want: []schema.RoleID{}},
		{name: "single diplomat", roles: []schema.RoleID{"D1"}, want: []schema.RoleID{"D1"}},
		{name: "secondary id maps to representative", roles: []schema.RoleID{"D2"}, want: []schema.RoleID{"D1"}},
		{name: "both diplomat ids collapse", roles: []schema.RoleID{"D2", "D1"}, want: []schema.RoleID{"D1"}},
		{name: "diplomat and minister", roles: []schema.RoleID{"M1", "D1"}, want: []schema.RoleID{"D1", "M1"}},
		{name: "examiner uses first id", roles: []schema.RoleID{"E2"}, want: []schema.RoleID{"E1"}},
		{name: "all", roles: []schema.RoleID{"E2", "M1", "D2", "X9"}, want: []schema.RoleID{"D1", "M1", "E1"}},
	}
	for _, tc := range tests {
		got := matchedRoles(Resolve(tc.roles, catalog))
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%s: Resolve mismatch (-want +got):\n%s", tc.name, diff)
		}
	}
}

func TestResolveDeterministic(t *testing.T) {
	catalog := NewCatalog(testPersonas())
	roles := []schema.RoleID{"E1", "M1", "D2"}
	first := Resolve(roles, catalog)
	for i := 0; i < 20; i++ {
		if diff := cmp.Diff(first, Resolve(roles, catalog)); diff != "" {
			t.Fatalf("Resolve not deterministic (-first +got):\n%s", diff)
		}
	}
}

func TestResolveDedupKeepsHigherPriority(t *testing.T) {
	catalog := NewCatalog([]schema.Persona{
		{Kind: "first", Label: "First", RoleIDs: []schema.RoleID{"S1", "A1"}},
		{Kind: "second", Label: "Second", RoleIDs: []schema.RoleID{"S1", "B1"}},
	})
	matches := Resolve([]schema.RoleID{"A1", "B1"}, catalog)
	if len(matches) != 1 {
		t.Fatalf("expected one match, got %+v", matches)
	}
	if matches[0].Persona.Kind != "first" || matches[0].RoleID != "S1" {
		t.Fatalf("expected first persona to win, got %+v", matches[0])
	}
}

func TestResolveSkipsPersonaWithoutRoles(t *testing.T) {
	catalog := NewCatalog([]schema.Persona{
		{Kind: "empty", Label: "Empty"},
		{Kind: schema.PersonaMinister, Label: "Minister", RoleIDs: []schema.RoleID{"M1"}},
	})
	got := matchedRoles(Resolve([]schema.RoleID{"M1", ""}, catalog))
	if diff := cmp.Diff([]schema.RoleID{"M1"}, got); diff != "" {
		t.Fatalf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalogIsolatedFromInput(t *testing.T) {
	personas := testPersonas()
	catalog := NewCatalog(personas)
	personas[0].RoleIDs[0] = "changed"
	if got := catalog.Personas()[0].RepresentativeRoleID(); got != "D1" {
		t.Fatalf("expected catalog to keep D1, got %q", got)
	}
}

func TestCatalogLookupFollowsPriority(t *testing.T) {
	catalog := NewCatalog([]schema.Persona{
		{Kind: "first", RoleIDs: []schema.RoleID{"A1", "S1"}},
		{Kind: "second", RoleIDs: []schema.RoleID{"S1"}},
	})
	persona, ok := catalog.Lookup("S1")
	if !ok || persona.Kind != "first" {
		t.Fatalf("expected first persona, got %+v ok=%v", persona, ok)
	}
	if _, ok := catalog.Lookup("missing"); ok {
		t.Fatalf("expected missing role to be unknown")
	}
	if _, ok := catalog.Lookup(""); ok {
		t.Fatalf("expected empty role to be unknown")
	}
}
