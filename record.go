package dyndns

import "strconv"

// RecordEntry is the static definition of one managed DNS record plus the
// provider-assigned ID ("token") used to address it in update calls.
// Entries come from configuration and are never modified after load.
type RecordEntry struct {
	Prefix  string
	Type    string
	Proxied string
	TTL     string
	Comment string
	Token   string
}

// ProxiedValue reports whether the record should be proxied through the
// provider's CDN. The raw value is parsed leniently: anything strconv can't
// read as a bool (including the empty string) counts as false rather than an
// error, so a typo in the config degrades to an unproxied record instead of
// aborting the batch.
func (e RecordEntry) ProxiedValue() bool {
	v, err := strconv.ParseBool(e.Proxied)
	if err != nil {
		return false
	}
	return v
}

// TTLValue converts the record's TTL to seconds.
// A TTL that does not parse as a positive integer is a configuration defect;
// it is validated at load time, not here.
func (e RecordEntry) TTLValue() int {
	v, _ := strconv.Atoi(e.TTL)
	return v
}
