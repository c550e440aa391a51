package dyndns

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/netip"
)

// NewEndpointUpdater constructs an Updater that PUTs record updates directly
// against a provider's REST endpoint. recordURL is the update URL prefix for
// the zone; each entry's record ID is appended to it. token is sent as a
// bearer credential with every request.
func NewEndpointUpdater(recordURL, token string) Updater {
	return &endpointUpdater{recordURL: recordURL, token: token}
}

type endpointUpdater struct {
	httpClient *http.Client
	recordURL  string
	token      string
}

type recordUpdate struct {
	Content string `json:"content"`
	Name    string `json:"name"`
	Proxied bool   `json:"proxied"`
	Type    string `json:"type"`
	Comment string `json:"comment"`
	ID      string `json:"id"`
	TTL     int    `json:"ttl"`
}

// Apply implements dyndns.Updater.
func (u *endpointUpdater) Apply(ctx context.Context, entry RecordEntry, ip netip.Addr) ([]byte, error) {
	payload, err := json.Marshal(recordUpdate{
		Content: ip.String(),
		Name:    entry.Prefix,
		Proxied: entry.ProxiedValue(),
		Type:    entry.Type,
		Comment: entry.Comment,
		ID:      entry.Token,
		TTL:     entry.TTLValue(),
	})
	if err != nil {
		return nil, fmt.Errorf("error encoding update payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u.recordURL+entry.Token, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+u.token)
	req.Header.Set("Content-Type", "application/json")

	httpclient := u.httpClient
	if httpclient == nil {
		httpclient = http.DefaultClient
	}
	resp, err := httpclient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}
