package dyndns

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/netip"
	"time"
)

// DefaultResolverURL is the IP echo service used when no resolver is configured.
const DefaultResolverURL = "https://api.ipify.org?format=json"

// StatusError is returned by resolvers backed by an HTTP service when the
// service responded but not with "200 OK". The status code is kept for
// logging; callers treat every resolver failure the same way regardless of
// cause.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ip service returned %s", e.Status)
}

// WebResolver constructs a resolver which uses an external web service to look
// up the caller's "public" IP address.
//
// The service must speak http and return status "200 OK" with a JSON body
// carrying the address in an "ip" field,
// e.g. https://api.ipify.org?format=json.
// All other responses are considered an error.
//
// The recommended approach is to run your own service over https.
func WebResolver(serviceURL string) Resolver {
	return &webResolver{serviceURL: serviceURL}
}

type webResolver struct {
	httpClient *http.Client
	serviceURL string
}

// Resolve implements dyndns.Resolver.
func (wr *webResolver) Resolve(ctx context.Context) (netip.Addr, error) {
	// 15 seconds is an eternity for the size of the request we're making,
	// but this ensures that all calls to resolve will eventually complete even if the user supplied context.TODO or context.Background
	// using http.DefaultClient (with no timeout).
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wr.serviceURL, nil)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	httpclient := wr.httpClient
	if httpclient == nil {
		httpclient = http.DefaultClient
	}

	resp, err := httpclient.Do(req)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return netip.Addr{}, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var body struct {
		IP string `json:"ip"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return netip.Addr{}, fmt.Errorf("error decoding ip service response: %w", err)
	}
	ip, err := netip.ParseAddr(body.IP)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("error parsing IP address from response body: %w", err)
	}
	return ip, nil
}
