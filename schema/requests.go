package schema

import "context"

// RoleGrants yields the role ids a member currently holds.
type RoleGrants interface {
	RoleIDs(ctx context.Context) ([]RoleID, error)
}

// StaticRoleGrants is a role snapshot taken from an interaction payload.
type StaticRoleGrants []RoleID

// RoleIDs returns the snapshot.
func (s StaticRoleGrants) RoleIDs(context.Context) ([]RoleID, error) {
	return []RoleID(s), nil
}

// RoleGrantsFunc adapts a function to RoleGrants.
type RoleGrantsFunc func(ctx context.Context) ([]RoleID, error)

// RoleIDs calls f.
func (f RoleGrantsFunc) RoleIDs(ctx context.Context) ([]RoleID, error) {
	return f(ctx)
}

// ToggleRequest describes a speaking-mode toggle command.
type ToggleRequest struct {
	ChannelID ChannelID
	UserID    UserID
	Roles     RoleGrants
}

// ChoiceRequest describes a persona selection answering a choice prompt.
type ChoiceRequest struct {
	Token       string
	ResponderID UserID
	RoleID      RoleID
}
