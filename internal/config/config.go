package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"overseer/internal/common"
	"overseer/internal/status"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env       string          `mapstructure:"env"`
	Log       LogConfig       `mapstructure:"log"`
	Discord   DiscordConfig   `mapstructure:"discord"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	KeepAlive KeepAliveConfig `mapstructure:"keepalive"`
	Status    StatusConfig    `mapstructure:"status"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DiscordConfig struct {
	Token         string `mapstructure:"token"`
	ClientID      string `mapstructure:"client_id"`
	DevGuildID    string `mapstructure:"dev_guild_id"`
	Prefix        string `mapstructure:"prefix"`
	EventRoleName string `mapstructure:"event_role_name"`
}

type DatabaseConfig struct {
	URL     string `mapstructure:"url"`
	SSLMode string `mapstructure:"sslmode"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type KeepAliveConfig struct {
	URL      string        `mapstructure:"url"`
	Interval time.Duration `mapstructure:"interval"`
}

type StatusConfig struct {
	URL          string               `mapstructure:"url"`
	Target       string               `mapstructure:"target"`
	Engine       string               `mapstructure:"engine"`
	Timeout      time.Duration        `mapstructure:"timeout"`
	UserAgent    string               `mapstructure:"user_agent"`
	Readiness    string               `mapstructure:"readiness"`
	ChromePath   string               `mapstructure:"chrome_path"`
	Selectors    status.Selectors     `mapstructure:"selectors"`
	Restrictions []common.Restriction `mapstructure:"restrictions"`
}

const (
	EngineChrome = "chrome"
	EngineStatic = "static"
	EngineLink   = "link"
)

// Environment variables used by the deployment, which do not follow
// the section_key naming of the rest of the configuration
var flatEnv = map[string]string{
	"discord.token":        "DISCORD_TOKEN",
	"discord.client_id":    "DISCORD_CLIENT_ID",
	"discord.dev_guild_id": "DEV_GUILD_ID",
	"database.url":         "DATABASE_URL",
	"server.port":          "PORT",
	"keepalive.url":        "RENDER_EXTERNAL_URL",
}

// Load the configuration from defaults, an optional config file and
// the environment, in increasing order of priority. An empty path
// looks for config.yaml in ./config and in the working directory
func Load(path string) (*Config, error) {

	// A missing .env is fine, variables may come from the real environment
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range flatEnv {
		if err := v.BindEnv(key, env, strings.ToUpper(strings.ReplaceAll(key, ".", "_"))); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("log.level", "info")

	v.SetDefault("discord.token", "")
	v.SetDefault("discord.client_id", "")
	v.SetDefault("discord.dev_guild_id", "")
	v.SetDefault("discord.prefix", "!")
	v.SetDefault("discord.event_role_name", "Eventek")

	v.SetDefault("database.url", "")
	v.SetDefault("database.sslmode", "require")

	v.SetDefault("server.port", "8080")

	v.SetDefault("keepalive.url", "")
	v.SetDefault("keepalive.interval", 5*time.Minute)

	v.SetDefault("status.url", "https://status.bethesda.net/en")
	v.SetDefault("status.target", "Fallout 76")
	v.SetDefault("status.engine", EngineChrome)
	v.SetDefault("status.timeout", status.DefaultRenderTimeout)
	v.SetDefault("status.user_agent", status.DefaultUserAgent)
	v.SetDefault("status.readiness", string(status.DefaultResolverConfig().Readiness))
	v.SetDefault("status.chrome_path", "")
	v.SetDefault("status.selectors.name", status.SiblingSelectors.Name)
	v.SetDefault("status.selectors.status", status.SiblingSelectors.Status)
	v.SetDefault("status.selectors.container", status.SiblingSelectors.Container)
	v.SetDefault("status.restrictions", []map[string]interface{}{
		{"requests": 4, "duration": "1m"},
	})
}

// Check what the bot needs to run. Slash command deployment only
// needs the discord section, see ValidateDeploy
func (c *Config) Validate() error {
	var errs []error

	if c.Discord.Token == "" {
		errs = append(errs, errors.New("DISCORD_TOKEN is required"))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Discord.Prefix == "" || strings.ContainsAny(c.Discord.Prefix, " \t\n") {
		errs = append(errs, fmt.Errorf("prefix %q must be non empty and without spaces", c.Discord.Prefix))
	}
	if c.KeepAlive.URL != "" {
		if err := checkURL(c.KeepAlive.URL); err != nil {
			errs = append(errs, fmt.Errorf("keepalive url: %w", err))
		}
		if c.KeepAlive.Interval <= 0 {
			errs = append(errs, errors.New("keepalive interval must be positive"))
		}
	}
	if err := checkURL(c.Status.URL); err != nil {
		errs = append(errs, fmt.Errorf("status url: %w", err))
	}

	switch c.Status.Engine {
	case EngineChrome, EngineStatic:
		if strings.TrimSpace(c.Status.Target) == "" {
			errs = append(errs, errors.New("status target is required"))
		}
		if c.Status.Timeout <= 0 {
			errs = append(errs, errors.New("status timeout must be positive"))
		}
		switch status.Readiness(c.Status.Readiness) {
		case status.ReadinessNetworkAlmostIdle, status.ReadinessNetworkIdle, status.ReadinessLoad:
		default:
			errs = append(errs, fmt.Errorf("unknown status readiness %q", c.Status.Readiness))
		}
		if err := c.Status.Selectors.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("status selectors: %w", err))
		}
	case EngineLink:
	default:
		errs = append(errs, fmt.Errorf("unknown status engine %q", c.Status.Engine))
	}

	return errors.Join(errs...)
}

func (c *Config) ValidateDeploy() error {
	var errs []error
	if c.Discord.Token == "" {
		errs = append(errs, errors.New("DISCORD_TOKEN is required"))
	}
	if c.Discord.ClientID == "" {
		errs = append(errs, errors.New("DISCORD_CLIENT_ID is required"))
	}
	return errors.Join(errs...)
}

// Settings handed to the status resolver
func (c *Config) Resolver() status.ResolverConfig {
	return status.ResolverConfig{
		RenderTimeout: c.Status.Timeout,
		UserAgent:     c.Status.UserAgent,
		Readiness:     status.Readiness(c.Status.Readiness),
		Selectors:     c.Status.Selectors,
	}
}

func (c *Config) Query() status.StatusQuery {
	return status.StatusQuery{
		TargetServiceName: c.Status.Target,
		SourceURL:         c.Status.URL,
	}
}

// Connection string for the database, adding the ssl mode when
// the url does not set one
func (c *Config) DSN() string {
	if c.Database.SSLMode == "" {
		return c.Database.URL
	}
	parsed, err := url.Parse(c.Database.URL)
	if err != nil || parsed.Scheme == "" {
		// key=value connection strings
		if strings.Contains(c.Database.URL, "sslmode=") {
			return c.Database.URL
		}
		return strings.TrimSpace(c.Database.URL + " sslmode=" + c.Database.SSLMode)
	}
	query := parsed.Query()
	if query.Get("sslmode") == "" {
		query.Set("sslmode", c.Database.SSLMode)
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func checkURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" || parsed.Host == "" {
		return fmt.Errorf("%q is not an http(s) url", raw)
	}
	return nil
}
