package schema

// OutcomeKind classifies the result of a toggle or choice.
type OutcomeKind string

const (
	// OutcomeDeactivated reports speaking mode was turned off.
	OutcomeDeactivated OutcomeKind = "deactivated"
	// OutcomeNotEligible reports the user holds no qualifying role.
	OutcomeNotEligible OutcomeKind = "not_eligible"
	// OutcomeActivated reports speaking mode was turned on.
	OutcomeActivated OutcomeKind = "activated"
	// OutcomeAwaitingChoice reports the user must pick one of several personas.
	OutcomeAwaitingChoice OutcomeKind = "awaiting_choice"
	// OutcomeRejected reports a choice that was refused.
	OutcomeRejected OutcomeKind = "rejected"
	// OutcomeFailed reports an upstream failure.
	OutcomeFailed OutcomeKind = "failed"
)

// PersonaOption is a persona as offered to or confirmed for a user.
type PersonaOption struct {
	Kind   PersonaKind
	RoleID RoleID
	Label  string
	Emoji  string
}

// Outcome is the renderable result of a toggle or choice.
type Outcome struct {
	Kind    OutcomeKind
	Persona PersonaOption
	Choices []PersonaOption
	Token   string
	// Reason holds the sentinel error for rejected, not eligible and failed outcomes.
	Reason error
}

// OptionFor converts a persona into a selectable option.
func OptionFor(p Persona) PersonaOption {
	return PersonaOption{
		Kind:   p.Kind,
		RoleID: p.RepresentativeRoleID(),
		Label:  p.Label,
		Emoji:  p.Emoji,
	}
}
