// Package membersync mirrors guild role membership into the citizen directory.
package membersync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"pkt.systems/pslog"
	"pkt.systems/rolepost/schema"
)

const (
	// GroupDiplomat marks members holding the diplomat role.
	GroupDiplomat = "diplomat"
	// GroupCitizen marks every other member.
	GroupCitizen = "citizen"

	defaultMemberLimit = 1000
)

// Member is a guild member snapshot.
type Member struct {
	UserID  schema.UserID
	RoleIDs []schema.RoleID
}

// MemberLister lists guild members.
type MemberLister interface {
	ListMembers(ctx context.Context, guildID schema.GuildID, limit int) ([]Member, error)
}

// Config configures a Syncer.
type Config struct {
	GuildID        schema.GuildID
	DiplomatRoleID schema.RoleID
	UpsertURL      string
	APIToken       string
	MemberLimit    int
	Throttle       time.Duration
	Jitter         time.Duration
	// Interval repeats the full sync; zero runs it once.
	Interval time.Duration
	Client   *http.Client
}

// Result summarizes a full sync run.
type Result struct {
	RunID  string
	Synced int
	Failed int
}

// Syncer pushes member snapshots to the directory API one at a time.
type Syncer struct {
	cfg    Config
	lister MemberLister
	client *http.Client
	log    pslog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func(limit time.Duration) time.Duration
}

// New constructs a Syncer.
func New(cfg Config, lister MemberLister, logger pslog.Logger) (*Syncer, error) {
	if lister == nil {
		return nil, errors.New("member lister is required")
	}
	if strings.TrimSpace(cfg.UpsertURL) == "" {
		return nil, errors.New("upsert url is required")
	}
	if cfg.GuildID == "" {
		return nil, errors.New("guild id is required")
	}
	if cfg.MemberLimit <= 0 {
		cfg.MemberLimit = defaultMemberLimit
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Syncer{
		cfg:    cfg,
		lister: lister,
		client: client,
		log:    logger.With("guild", cfg.GuildID),
		sleep:  sleepContext,
		jitter: randomJitter,
	}, nil
}

// InferGroup classifies a member by role grants.
func InferGroup(roleIDs []schema.RoleID, diplomatRoleID schema.RoleID) string {
	if diplomatRoleID == "" {
		return GroupCitizen
	}
	for _, id := range roleIDs {
		if id == diplomatRoleID {
			return GroupDiplomat
		}
	}
	return GroupCitizen
}

type upsertPayload struct {
	GuildID   string   `json:"guild_id"`
	DiscordID string   `json:"discord_id"`
	Group     string   `json:"group"`
	Roles     []string `json:"roles"`
}

// SyncMember upserts one member and returns the HTTP status.
func (s *Syncer) SyncMember(ctx context.Context, m Member) (int, error) {
	roles := make([]string, 0, len(m.RoleIDs))
	for _, id := range m.RoleIDs {
		roles = append(roles, string(id))
	}
	body, err := json.Marshal(upsertPayload{
		GuildID:   string(s.cfg.GuildID),
		DiscordID: string(m.UserID),
		Group:     InferGroup(m.RoleIDs, s.cfg.DiplomatRoleID),
		Roles:     roles,
	})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.UpsertURL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := strings.TrimSpace(s.cfg.APIToken); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	s.log.Debug("membersync member upsert", "user", m.UserID, "status", resp.StatusCode)
	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, fmt.Errorf("upsert member %s: status %d", m.UserID, resp.StatusCode)
	}
	return resp.StatusCode, nil
}

// FullSync lists the guild members and upserts each one, pausing between
// members. Per-member failures are logged and counted, not returned.
func (s *Syncer) FullSync(ctx context.Context) (Result, error) {
	result := Result{RunID: uuid.NewString()}
	log := s.log.With("run", result.RunID)
	members, err := s.lister.ListMembers(ctx, s.cfg.GuildID, s.cfg.MemberLimit)
	if err != nil {
		log.Warn("membersync list failed", "err", err)
		return result, fmt.Errorf("list members: %w", err)
	}
	log.Info("membersync run start", "members", len(members))
	for _, m := range members {
		if _, err := s.SyncMember(ctx, m); err != nil {
			result.Failed++
			log.Warn("membersync member failed", "user", m.UserID, "err", err)
		} else {
			result.Synced++
		}
		if err := s.sleep(ctx, s.cfg.Throttle+s.jitter(s.cfg.Jitter)); err != nil {
			log.Info("membersync run canceled", "synced", result.Synced, "failed", result.Failed)
			return result, err
		}
	}
	log.Info("membersync run done", "synced", result.Synced, "failed", result.Failed)
	return result, nil
}

// Run performs a full sync now and then on every interval until ctx ends.
func (s *Syncer) Run(ctx context.Context) error {
	for {
		if _, err := s.FullSync(ctx); err != nil && ctx.Err() == nil {
			s.log.Warn("membersync run failed", "err", err)
		}
		if s.cfg.Interval <= 0 {
			return nil
		}
		if err := s.sleep(ctx, s.cfg.Interval); err != nil {
			return nil
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func randomJitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(limit)))
}
