package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const validConfig = `api_token: account-token
dns_token: update-token
record_url: https://api.cloudflare.com/client/v4/zones/z1/dns_records/
entries:
  - prefix: home
    type: A
    proxied: "true"
    ttl: "120"
    comment: homelab
    token: rec-a
  - prefix: vpn
    type: A
    proxied: "false"
    ttl: "60"
    token: rec-b
`

func writeConfig(t *testing.T, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dyndns.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), perm))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, validConfig, 0600)

	cfg, err := loadConfig(path, "")
	assert.NoError(t, err)

	assert.Equal(t, "account-token", cfg.APIToken)
	assert.Equal(t, "update-token", cfg.DNSToken)
	assert.Equal(t, "https://api.cloudflare.com/client/v4/zones/z1/dns_records/", cfg.RecordURL)
	assert.Len(t, cfg.Entries, 2)

	records := cfg.records()
	assert.Equal(t, "home", records[0].Prefix)
	assert.Equal(t, "rec-b", records[1].Token)
	assert.True(t, records[0].ProxiedValue())
	assert.Equal(t, 60, records[1].TTLValue())
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfig(t, validConfig, 0600)
	t.Setenv("DYNDNS_DNS_TOKEN", "token-from-env")

	cfg, err := loadConfig(path, "")
	assert.NoError(t, err)
	assert.Equal(t, "token-from-env", cfg.DNSToken)
}

func TestLoadConfigEnvFile(t *testing.T) {
	path := writeConfig(t, validConfig, 0600)
	envPath := filepath.Join(t.TempDir(), "tokens.env")
	assert.NoError(t, os.WriteFile(envPath, []byte("DYNDNS_API_TOKEN=api-from-file\n"), 0600))

	// godotenv only fills in variables that aren't already present
	os.Unsetenv("DYNDNS_API_TOKEN")
	t.Cleanup(func() { os.Unsetenv("DYNDNS_API_TOKEN") })

	cfg, err := loadConfig(path, envPath)
	assert.NoError(t, err)
	assert.Equal(t, "api-from-file", cfg.APIToken)
}

func TestLoadConfigRejectsLoosePermissions(t *testing.T) {
	path := writeConfig(t, validConfig, 0644)

	_, err := loadConfig(path, "")
	assert.ErrorContains(t, err, "invalid permissions")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no entries", func(c *Config) { c.Entries = nil }},
		{"both url and zone", func(c *Config) { c.ZoneID = "z1" }},
		{"neither url nor zone", func(c *Config) { c.RecordURL = "" }},
		{"missing token", func(c *Config) { c.Entries[0].Token = "" }},
		{"non-numeric ttl", func(c *Config) { c.Entries[0].TTL = "fast" }},
		{"zero ttl", func(c *Config) { c.Entries[1].TTL = "0" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{
				DNSToken:  "update-token",
				RecordURL: "https://example.com/records/",
				Entries: []entryConfig{
					{Prefix: "home", Type: "A", TTL: "120", Token: "rec-a"},
					{Prefix: "vpn", Type: "A", TTL: "60", Token: "rec-b"},
				},
			}
			tc.mutate(cfg)
			assert.Error(t, cfg.validate())
		})
	}
}
