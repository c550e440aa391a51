package dyndns_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/tsweeney/dyndns"
)

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ip":"192.168.2.1"}`)
	}))
	defer srv.Close()

	wr := dyndns.WebResolver(srv.URL)
	got, err := wr.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Request failed: %s", err)
	}
	if expected := netip.MustParseAddr("192.168.2.1"); expected != got {
		t.Fatalf("Expected %q; got %q", expected, got)
	}
}

func TestLookupIPv6(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ip":"2001:db8::1"}`)
	}))
	defer srv.Close()

	wr := dyndns.WebResolver(srv.URL)
	got, err := wr.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Request failed: %s", err)
	}
	if expected := netip.MustParseAddr("2001:db8::1"); expected != got {
		t.Fatalf("Expected %q; got %q", expected, got)
	}
}

func TestLookupNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	wr := dyndns.WebResolver(srv.URL)
	_, err := wr.Resolve(context.Background())
	if err == nil {
		t.Fatalf("Expected error response; got err == nil")
	}
	var statusErr *dyndns.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected a *StatusError; got %T: %s", err, err)
	}
	if statusErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("Expected code %d; got %d", http.StatusBadGateway, statusErr.StatusCode)
	}
}

func TestLookupMalformedBody(t *testing.T) {
	bodies := []string{`not json`, `{"ip":"not an ip"}`, `{}`}
	for _, body := range bodies {
		body := body
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, body)
		}))
		defer srv.Close()

		wr := dyndns.WebResolver(srv.URL)
		if _, err := wr.Resolve(context.Background()); err == nil {
			t.Fatalf("Expected error for body %q; got err == nil", body)
		}
	}
}
