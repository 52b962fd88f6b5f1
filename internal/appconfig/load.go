package appconfig

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from the provided path. If path is empty, uses DefaultConfigPath.
// A missing file is not an error; defaults and environment overrides apply.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("discord.token", cfg.Discord.Token)
	v.SetDefault("discord.application_id", cfg.Discord.ApplicationID)
	v.SetDefault("discord.guild_id", cfg.Discord.GuildID)
	v.SetDefault("personas", cfg.Personas)
	v.SetDefault("sync.enabled", cfg.Sync.Enabled)
	v.SetDefault("sync.upsert_url", cfg.Sync.UpsertURL)
	v.SetDefault("sync.api_token", cfg.Sync.APIToken)
	v.SetDefault("sync.guild_id", cfg.Sync.GuildID)
	v.SetDefault("sync.diplomat_role_id", cfg.Sync.DiplomatRoleID)
	v.SetDefault("sync.member_limit", cfg.Sync.MemberLimit)
	v.SetDefault("sync.throttle_ms", cfg.Sync.ThrottleMillis)
	v.SetDefault("sync.jitter_ms", cfg.Sync.JitterMillis)
	v.SetDefault("sync.interval_minutes", cfg.Sync.IntervalMinutes)
	v.SetDefault("logging.disable_audit_trails", cfg.Logging.DisableAuditTrails)
	v.SetDefault("logging.webhook_url", cfg.Logging.WebhookURL)
	v.SetDefault("logging.webhook_queue", cfg.Logging.WebhookQueue)
	v.SetDefault("logging.exclude_keywords", cfg.Logging.ExcludeKeywords)

	for key, env := range map[string]string{
		"discord.token":          "DISCORD_TOKEN",
		"discord.application_id": "DISCORD_APP_ID",
		"discord.guild_id":       "DISCORD_GUILD_ID",
		"logging.webhook_url":    "DISCORD_WEBHOOK_URL",
		"sync.upsert_url":        "CZR_UPSERT_URL",
		"sync.api_token":         "CZR_API_TOKEN",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, err
		}
	}

	configLoaded := false
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	} else {
		configLoaded = true
	}

	if configLoaded {
		if !v.InConfig("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
	}

	cfg = Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	expandConfigEnv(&cfg)
	if err := validatePersonas(cfg.Personas); err != nil {
		return Config{}, err
	}
	if err := validateSyncConfig(cfg.Sync); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validatePersonas(personas []PersonaConfig) error {
	if len(personas) == 0 {
		return fmt.Errorf("personas must list at least one persona")
	}
	seen := make(map[string]struct{}, len(personas))
	for i, p := range personas {
		kind := strings.ToLower(strings.TrimSpace(p.Kind))
		if kind == "" {
			return fmt.Errorf("personas[%d].kind is required", i)
		}
		if _, ok := seen[kind]; ok {
			return fmt.Errorf("personas[%d].kind %q is duplicated", i, p.Kind)
		}
		seen[kind] = struct{}{}
		if p.EmbedColor < 0 || p.EmbedColor > 0xffffff {
			return fmt.Errorf("personas[%d].embed_color must be between 0 and 0xffffff", i)
		}
	}
	return nil
}

func validateSyncConfig(cfg SyncConfig) error {
	if !cfg.Enabled {
		return nil
	}
	target := strings.TrimSpace(cfg.UpsertURL)
	if target == "" {
		return fmt.Errorf("sync.upsert_url is required when sync is enabled")
	}
	parsed, err := url.Parse(target)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("sync.upsert_url must include scheme and host (e.g. https://example.com/members)")
	}
	if strings.TrimSpace(cfg.GuildID) == "" {
		return fmt.Errorf("sync.guild_id is required when sync is enabled")
	}
	if cfg.ThrottleMillis < 0 || cfg.JitterMillis < 0 || cfg.IntervalMinutes < 0 {
		return fmt.Errorf("sync.throttle_ms, sync.jitter_ms and sync.interval_minutes must not be negative")
	}
	return nil
}

func expandConfigEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.Discord.Token = expandEnv(cfg.Discord.Token)
	cfg.Discord.ApplicationID = expandEnv(cfg.Discord.ApplicationID)
	cfg.Discord.GuildID = expandEnv(cfg.Discord.GuildID)
	cfg.Sync.UpsertURL = expandEnv(cfg.Sync.UpsertURL)
	cfg.Sync.APIToken = expandEnv(cfg.Sync.APIToken)
	cfg.Logging.WebhookURL = expandEnv(cfg.Logging.WebhookURL)
	for i := range cfg.Personas {
		cfg.Personas[i].RoleIDs = expandEnv(cfg.Personas[i].RoleIDs)
		cfg.Personas[i].EmbedIcon = expandEnv(cfg.Personas[i].EmbedIcon)
	}
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
