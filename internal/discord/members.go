package discord

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"

	"pkt.systems/rolepost/internal/membersync"
	"pkt.systems/rolepost/schema"
)

const memberPageSize = 1000

// MemberDirectory lists guild members over REST.
type MemberDirectory struct {
	api MemberAPI
}

// NewMemberDirectory wraps a member API.
func NewMemberDirectory(api MemberAPI) *MemberDirectory {
	return &MemberDirectory{api: api}
}

// ListMembers pages through the guild until limit members are collected or
// the guild is exhausted.
func (d *MemberDirectory) ListMembers(ctx context.Context, guildID schema.GuildID, limit int) ([]membersync.Member, error) {
	if d == nil || d.api == nil {
		return nil, errors.New("member api is required")
	}
	var out []membersync.Member
	after := ""
	seen := 0
	for limit <= 0 || seen < limit {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		size := memberPageSize
		if limit > 0 && limit-seen < size {
			size = limit - seen
		}
		page, err := d.api.GuildMembers(string(guildID), after, size, discordgo.WithContext(ctx))
		if err != nil {
			return out, err
		}
		cursor := after
		for _, m := range page {
			if m == nil || m.User == nil {
				continue
			}
			after = m.User.ID
			seen++
			out = append(out, membersync.Member{
				UserID:  schema.UserID(m.User.ID),
				RoleIDs: []schema.RoleID(toRoleIDs(m.Roles)),
			})
		}
		if len(page) < size || after == cursor {
			break
		}
	}
	return out, nil
}

var _ membersync.MemberLister = (*MemberDirectory)(nil)
