package core

import (
	"context"

	"pkt.systems/rolepost/schema"
)

// Service is the transport-agnostic API for toggling scoped speaking mode.
//
// Toggle and Choose report domain results (not eligible, rejected, ...) through
// the returned Outcome. A non-nil error is returned only for invalid requests
// and upstream failures; the Outcome is still renderable in that case.
type Service interface {
	Toggle(ctx context.Context, req schema.ToggleRequest) (schema.Outcome, error)
	Choose(ctx context.Context, req schema.ChoiceRequest) (schema.Outcome, error)
	ActiveRole(ctx context.Context, channelID schema.ChannelID, userID schema.UserID) (schema.RoleID, bool)
	Catalog() *Catalog
}
