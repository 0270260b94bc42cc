package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"overseer/internal/common"
	"overseer/internal/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valid() *Config {
	return &Config{
		Discord:  DiscordConfig{Token: "token", Prefix: "!"},
		Database: DatabaseConfig{URL: "postgres://bot@localhost/bot"},
		Status: StatusConfig{
			URL:       "https://status.bethesda.net/en",
			Target:    "Fallout 76",
			Engine:    EngineChrome,
			Timeout:   time.Minute,
			Readiness: string(status.ReadinessNetworkIdle),
			Selectors: status.SiblingSelectors,
		},
	}
}

func TestLoad_Defaults(t *testing.T) {

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "!", cfg.Discord.Prefix)
	assert.Equal(t, "Eventek", cfg.Discord.EventRoleName)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.KeepAlive.Interval)
	assert.Equal(t, "Fallout 76", cfg.Status.Target)
	assert.Equal(t, 90*time.Second, cfg.Status.Timeout)
	assert.Equal(t, status.SiblingSelectors, cfg.Status.Selectors)
	assert.Equal(t, string(status.ReadinessNetworkAlmostIdle), cfg.Status.Readiness)
	assert.Equal(t, []common.Restriction{{Requests: 4, Duration: time.Minute}}, cfg.Status.Restrictions)
}

func TestLoad_FlatEnvironment(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "secret")
	t.Setenv("DATABASE_URL", "postgres://bot@db/bot")
	t.Setenv("PORT", "10000")
	t.Setenv("RENDER_EXTERNAL_URL", "https://overseer.onrender.com")
	t.Setenv("STATUS_ENGINE", "static")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Discord.Token)
	assert.Equal(t, "postgres://bot@db/bot", cfg.Database.URL)
	assert.Equal(t, "10000", cfg.Server.Port)
	assert.Equal(t, "https://overseer.onrender.com", cfg.KeepAlive.URL)
	assert.Equal(t, EngineStatic, cfg.Status.Engine)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overseer.yaml")
	content := `
discord:
  prefix: "?"
status:
  timeout: 30s
  selectors:
    name: ".component-container .name"
    status: ".component-status"
    container: ".component-container"
  restrictions:
    - requests: 1
      duration: 10s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "?", cfg.Discord.Prefix)
	assert.Equal(t, 30*time.Second, cfg.Status.Timeout)
	assert.Equal(t, status.ComponentSelectors, cfg.Status.Selectors)
	assert.Equal(t, []common.Restriction{{Requests: 1, Duration: 10 * time.Second}}, cfg.Status.Restrictions)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"no token", func(c *Config) { c.Discord.Token = "" }},
		{"no database", func(c *Config) { c.Database.URL = "" }},
		{"prefix with space", func(c *Config) { c.Discord.Prefix = "! " }},
		{"bad keepalive url", func(c *Config) { c.KeepAlive.URL = "ftp://x" }},
		{"keepalive without interval", func(c *Config) { c.KeepAlive.URL = "https://x.onrender.com" }},
		{"unknown engine", func(c *Config) { c.Status.Engine = "firefox" }},
		{"no target", func(c *Config) { c.Status.Target = " " }},
		{"no timeout", func(c *Config) { c.Status.Timeout = 0 }},
		{"unknown readiness", func(c *Config) { c.Status.Readiness = "domcontentloaded" }},
		{"puppeteer readiness name", func(c *Config) { c.Status.Readiness = "networkidle2" }},
		{"bad selector", func(c *Config) { c.Status.Selectors.Name = "div[" }},
		{"bad status url", func(c *Config) { c.Status.URL = "status.bethesda.net" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_Readiness(t *testing.T) {
	for _, readiness := range []status.Readiness{status.ReadinessNetworkAlmostIdle, status.ReadinessNetworkIdle, status.ReadinessLoad} {
		cfg := valid()
		cfg.Status.Readiness = string(readiness)
		assert.NoError(t, cfg.Validate(), readiness)
	}
}

func TestValidate_LinkEngineSkipsScraperSettings(t *testing.T) {
	cfg := valid()
	cfg.Status.Engine = EngineLink
	cfg.Status.Timeout = 0
	cfg.Status.Selectors = status.Selectors{}

	assert.NoError(t, cfg.Validate())
}

func TestValidateDeploy(t *testing.T) {
	cfg := &Config{Discord: DiscordConfig{Token: "token"}}
	assert.Error(t, cfg.ValidateDeploy())

	cfg.Discord.ClientID = "1234"
	assert.NoError(t, cfg.ValidateDeploy())
}

func TestDSN(t *testing.T) {
	cfg := valid()
	cfg.Database.SSLMode = "require"
	assert.Equal(t, "postgres://bot@localhost/bot?sslmode=require", cfg.DSN())

	cfg.Database.URL = "postgres://bot@localhost/bot?sslmode=disable"
	assert.Equal(t, "postgres://bot@localhost/bot?sslmode=disable", cfg.DSN())

	cfg.Database.URL = "host=localhost user=bot"
	assert.Equal(t, "host=localhost user=bot sslmode=require", cfg.DSN())

	cfg.Database.SSLMode = ""
	assert.Equal(t, "host=localhost user=bot", cfg.DSN())
}

func TestResolverAndQuery(t *testing.T) {
	cfg := valid()

	resolver := cfg.Resolver()
	assert.Equal(t, time.Minute, resolver.RenderTimeout)
	assert.Equal(t, status.ReadinessNetworkIdle, resolver.Readiness)

	query := cfg.Query()
	assert.Equal(t, "Fallout 76", query.TargetServiceName)
	assert.Equal(t, "https://status.bethesda.net/en", query.SourceURL)
}
