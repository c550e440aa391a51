package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/tsweeney/dyndns"
)

// Config is the record configuration consumed from the YAML file.
// Tokens may instead come from the environment (optionally seeded from an
// .env file) so the YAML can stay free of secrets.
type Config struct {
	APIToken  string        `yaml:"api_token"`
	DNSToken  string        `yaml:"dns_token"`
	RecordURL string        `yaml:"record_url"`
	ZoneID    string        `yaml:"zone_id"`
	Entries   []entryConfig `yaml:"entries"`
}

type entryConfig struct {
	Prefix  string `yaml:"prefix"`
	Type    string `yaml:"type"`
	Proxied string `yaml:"proxied"`
	TTL     string `yaml:"ttl"`
	Comment string `yaml:"comment"`
	Token   string `yaml:"token"`
}

func loadConfig(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("error loading env file: %w", err)
		}
	}

	if err := verifyPermissions(path); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if v := os.Getenv("DYNDNS_API_TOKEN"); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv("DYNDNS_DNS_TOKEN"); v != "" {
		cfg.DNSToken = v
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.Entries) == 0 {
		return errors.New("config must define at least one DNS entry")
	}
	if (c.RecordURL == "") == (c.ZoneID == "") {
		return errors.New("config must set exactly one of record_url and zone_id")
	}
	for i, e := range c.Entries {
		if e.Prefix == "" || e.Type == "" || e.Token == "" {
			return fmt.Errorf("entry %d is missing prefix, type, or token", i)
		}
		if ttl, err := strconv.Atoi(e.TTL); err != nil || ttl <= 0 {
			return fmt.Errorf("entry %q has invalid ttl %q: must be a positive integer", e.Prefix, e.TTL)
		}
	}
	return nil
}

// ensureDNSToken prompts for the update token when neither the config file
// nor the environment provided one.
func (c *Config) ensureDNSToken() error {
	if c.DNSToken != "" {
		return nil
	}
	fmt.Printf("Enter DNS update API token: \n")
	bytekey, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("error reading token from stdin: %w", err)
	}
	c.DNSToken = strings.TrimSpace(string(bytekey))
	if c.DNSToken == "" {
		return errors.New("DNS update token cannot be empty")
	}
	return nil
}

func (c *Config) records() []dyndns.RecordEntry {
	entries := make([]dyndns.RecordEntry, 0, len(c.Entries))
	for _, e := range c.Entries {
		entries = append(entries, dyndns.RecordEntry{
			Prefix:  e.Prefix,
			Type:    e.Type,
			Proxied: e.Proxied,
			TTL:     e.TTL,
			Comment: e.Comment,
			Token:   e.Token,
		})
	}
	return entries
}

func (c *Config) debugDump() {
	log.Debugf("Loaded API Token:   %s", redact(c.APIToken))
	log.Debugf("Loaded DNS Token:   %s", redact(c.DNSToken))
	if c.ZoneID != "" {
		log.Debugf("Loaded Zone ID:     %s", c.ZoneID)
	} else {
		log.Debugf("Loaded Record URL:  %s", c.RecordURL)
	}
	for _, e := range c.Entries {
		log.Debugf("Loaded DNS Entry:   %s, %s, %s, %s", e.Prefix, e.Type, e.Proxied, e.Token)
	}
}

func redact(s string) string {
	if s == "" {
		return "(unset)"
	}
	return fmt.Sprintf("(%d characters)", len(s))
}

func verifyPermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("error checking config file permissions: %w", err)
	}

	perms := info.Mode().Perm()
	// The config file can hold API tokens. Error messages will state that we
	// want 0600, but we'll also accept 0400 which is even more restricted.
	// The file might be provided by some secrets managing software as readonly.
	if perms != 0600 && perms != 0400 {
		return fmt.Errorf("invalid permissions for %q: expected file permissions \"-rw-------\"; found %q", path, fs.FileMode(perms))
	}

	return nil
}
