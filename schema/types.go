package schema

// ChannelID identifies a guild text channel.
type ChannelID string

// UserID identifies a guild member.
type UserID string

// RoleID identifies a guild role grant.
type RoleID string

// GuildID identifies a guild.
type GuildID string

// PersonaKind names a speaking persona group.
type PersonaKind string

const (
	// PersonaDiplomat speaks for the foreign affairs office.
	PersonaDiplomat PersonaKind = "diplomat"
	// PersonaMinister speaks for the cabinet council.
	PersonaMinister PersonaKind = "minister"
	// PersonaExaminer speaks for immigration control.
	PersonaExaminer PersonaKind = "examiner"
)

// Persona is a speaking identity qualified for by any of its role grants.
// RoleIDs keeps the configured order; the first entry is the representative role.
type Persona struct {
	Kind       PersonaKind
	Label      string
	RoleIDs    []RoleID
	Emoji      string
	EmbedName  string
	EmbedIcon  string
	EmbedColor int
}

// RepresentativeRoleID returns the canonical role id for the persona.
func (p Persona) RepresentativeRoleID() RoleID {
	if len(p.RoleIDs) == 0 {
		return ""
	}
	return p.RoleIDs[0]
}

// HasRole reports whether roleID is one of the persona's configured roles.
func (p Persona) HasRole(roleID RoleID) bool {
	for _, id := range p.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// PersonaMatch is a persona a user may speak as.
type PersonaMatch struct {
	Persona Persona
	RoleID  RoleID
}
