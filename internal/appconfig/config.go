package appconfig

import (
	"os"
	"path/filepath"
	"strings"

	"pkt.systems/rolepost/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int             `mapstructure:"config_version" yaml:"config_version"`
	Discord       DiscordConfig   `mapstructure:"discord" yaml:"discord"`
	Personas      []PersonaConfig `mapstructure:"personas" yaml:"personas"`
	Sync          SyncConfig      `mapstructure:"sync" yaml:"sync"`
	Logging       LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// DiscordConfig configures the bot connection.
type DiscordConfig struct {
	Token         string `mapstructure:"token" yaml:"token"`
	ApplicationID string `mapstructure:"application_id" yaml:"application_id"`
	// GuildID scopes command deployment to one guild; empty deploys globally.
	GuildID string `mapstructure:"guild_id" yaml:"guild_id"`
}

// PersonaConfig describes one persona in priority order.
type PersonaConfig struct {
	Kind  string `mapstructure:"kind" yaml:"kind"`
	Label string `mapstructure:"label" yaml:"label"`
	// RoleIDs is a comma-separated role id list.
	RoleIDs string `mapstructure:"role_ids" yaml:"role_ids"`
	// RoleIDsEnv names an environment variable that overrides RoleIDs when set.
	RoleIDsEnv string `mapstructure:"role_ids_env" yaml:"role_ids_env"`
	Emoji      string `mapstructure:"emoji" yaml:"emoji"`
	EmbedName  string `mapstructure:"embed_name" yaml:"embed_name"`
	EmbedIcon  string `mapstructure:"embed_icon" yaml:"embed_icon"`
	EmbedColor int    `mapstructure:"embed_color" yaml:"embed_color"`
}

// SyncConfig controls the member directory synchronizer.
type SyncConfig struct {
	Enabled         bool   `mapstructure:"enabled" yaml:"enabled"`
	UpsertURL       string `mapstructure:"upsert_url" yaml:"upsert_url"`
	APIToken        string `mapstructure:"api_token" yaml:"api_token"`
	GuildID         string `mapstructure:"guild_id" yaml:"guild_id"`
	DiplomatRoleID  string `mapstructure:"diplomat_role_id" yaml:"diplomat_role_id"`
	MemberLimit     int    `mapstructure:"member_limit" yaml:"member_limit"`
	ThrottleMillis  int    `mapstructure:"throttle_ms" yaml:"throttle_ms"`
	JitterMillis    int    `mapstructure:"jitter_ms" yaml:"jitter_ms"`
	IntervalMinutes int    `mapstructure:"interval_minutes" yaml:"interval_minutes"`
}

// LoggingConfig controls audit logging and the log webhook relay.
type LoggingConfig struct {
	DisableAuditTrails bool     `mapstructure:"disable_audit_trails" yaml:"disable_audit_trails"`
	WebhookURL         string   `mapstructure:"webhook_url" yaml:"webhook_url"`
	WebhookQueue       int      `mapstructure:"webhook_queue" yaml:"webhook_queue"`
	ExcludeKeywords    []string `mapstructure:"exclude_keywords" yaml:"exclude_keywords"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Discord: DiscordConfig{
			Token:         "",
			ApplicationID: "",
			GuildID:       "",
		},
		Personas: []PersonaConfig{
			{
				Kind:       string(schema.PersonaDiplomat),
				Label:      "外交官(外務省 総合外務部職員)",
				RoleIDsEnv: "ROLLID_DIPLOMAT",
				EmbedColor: 0x3498db,
			},
			{
				Kind:       string(schema.PersonaMinister),
				Label:      "閣僚会議議員",
				RoleIDsEnv: "ROLLID_MINISTER",
				EmbedColor: 0x3498db,
			},
			{
				Kind:       string(schema.PersonaExaminer),
				Label:      "入国審査担当官",
				RoleIDsEnv: "EXAMINER_ROLE_IDS",
				EmbedColor: 0x3498db,
			},
		},
		Sync: SyncConfig{
			Enabled:         false,
			GuildID:         "1188411576483590194",
			DiplomatRoleID:  "1188429176739479562",
			MemberLimit:     1000,
			ThrottleMillis:  1000,
			JitterMillis:    250,
			IntervalMinutes: 0,
		},
		Logging: LoggingConfig{
			DisableAuditTrails: false,
			WebhookQueue:       256,
			ExcludeKeywords: []string{
				"parentId:",
				"TICKET_CAT:",
				"mentions.has(",
				"content:",
				"authorId:",
				"channelId:",
			},
		},
	}
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".rolepost", "config.yaml"), nil
}

// SchemaPersonas converts persona config into catalog entries, resolving
// role id lists from the environment where configured.
func (c Config) SchemaPersonas() []schema.Persona {
	out := make([]schema.Persona, 0, len(c.Personas))
	for _, p := range c.Personas {
		raw := p.RoleIDs
		if name := strings.TrimSpace(p.RoleIDsEnv); name != "" {
			if value, ok := os.LookupEnv(name); ok {
				raw = value
			}
		}
		out = append(out, schema.Persona{
			Kind:       schema.PersonaKind(p.Kind),
			Label:      p.Label,
			RoleIDs:    schema.ParseRoleIDs(raw),
			Emoji:      p.Emoji,
			EmbedName:  p.EmbedName,
			EmbedIcon:  p.EmbedIcon,
			EmbedColor: p.EmbedColor,
		})
	}
	return out
}
