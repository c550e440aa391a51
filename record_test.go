package dyndns_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tsweeney/dyndns"
)

func TestProxiedValueLenientParse(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"false", false},
		{"0", false},
		{"", false},
		{"yes", false},
		{"banana", false},
	}

	for _, c := range cases {
		entry := dyndns.RecordEntry{Proxied: c.raw}
		assert.Equal(t, c.want, entry.ProxiedValue(), "raw value %q", c.raw)
	}
}

func TestTTLValue(t *testing.T) {
	assert.Equal(t, 120, dyndns.RecordEntry{TTL: "120"}.TTLValue())
	assert.Equal(t, 0, dyndns.RecordEntry{TTL: ""}.TTLValue())
}
