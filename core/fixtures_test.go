package core

import (
	"strconv"
	"testing"

	"pkt.systems/rolepost/schema"
)

func testPersonas() []schema.Persona {
	return []schema.Persona{
		{Kind: schema.PersonaDiplomat, Label: "Diplomat", RoleIDs: []schema.RoleID{"D1", "D2"}, Emoji: "🕊️"},
		{Kind: schema.PersonaMinister, Label: "Minister", RoleIDs: []schema.RoleID{"M1"}},
		{Kind: schema.PersonaExaminer, Label: "Examiner", RoleIDs: []schema.RoleID{"E1", "E2"}},
	}
}

func newTestService(t *testing.T, store SessionStore) Service {
	t.Helper()
	svc, err := NewService(schema.ServiceConfig{Personas: testPersonas()}, ServiceDeps{Store: store})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func schemaRole(id string) schema.RoleID {
	return schema.RoleID(id)
}

func schemaUser(i int) schema.UserID {
	return schema.UserID("u" + strconv.Itoa(i))
}
