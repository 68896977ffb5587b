package dnscheck

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
)

type fakeResolver struct {
	cname    string
	cnameErr error
	hosts    []string
	hostErr  error
}

func (f fakeResolver) LookupCNAME(ctx context.Context, host string) (string, error) {
	return f.cname, f.cnameErr
}

func (f fakeResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	return f.hosts, f.hostErr
}

func TestCheck(t *testing.T) {
	notFound := &net.DNSError{Err: "no such host", Name: "qr.acme.io", IsNotFound: true}
	timeout := &net.DNSError{Err: "i/o timeout", Name: "qr.acme.io", IsTimeout: true}

	tests := []struct {
		name        string
		resolver    fakeResolver
		cname       string
		addrs       []string
		configured  bool
		unreachable bool
		reason      string
	}{
		{
			name:       "cname matches ignoring case and trailing dot",
			resolver:   fakeResolver{cname: "Edge.QRLink.io."},
			cname:      "edge.qrlink.io",
			configured: true,
		},
		{
			name:     "cname points elsewhere",
			resolver: fakeResolver{cname: "other.example.com."},
			cname:    "edge.qrlink.io",
			reason:   "does not point to edge.qrlink.io",
		},
		{
			name:     "nxdomain is not configured",
			resolver: fakeResolver{cnameErr: notFound},
			cname:    "edge.qrlink.io",
			reason:   "does not point to",
		},
		{
			name:        "timeout is unreachable",
			resolver:    fakeResolver{cnameErr: timeout},
			cname:       "edge.qrlink.io",
			unreachable: true,
		},
		{
			name:       "a record matches",
			resolver:   fakeResolver{cname: "qr.acme.io.", hosts: []string{"10.0.0.9", "203.0.113.7"}},
			cname:      "edge.qrlink.io",
			addrs:      []string{"203.0.113.7"},
			configured: true,
		},
		{
			name:     "a record mismatch",
			resolver: fakeResolver{hosts: []string{"10.0.0.9"}},
			addrs:    []string{"203.0.113.7"},
			reason:   "resolves to 10.0.0.9",
		},
		{
			name:        "host lookup temporary failure",
			resolver:    fakeResolver{hostErr: &net.DNSError{Err: "server misbehaving", IsTemporary: true}},
			addrs:       []string{"203.0.113.7"},
			unreachable: true,
		},
		{
			name:     "no target configured",
			resolver: fakeResolver{},
			reason:   "no verification target",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker(tt.resolver, tt.cname, tt.addrs, 0)
			res, err := c.Check(context.Background(), "qr.acme.io")

			if tt.unreachable {
				if !errors.Is(err, ErrUnreachable) {
					t.Fatalf("err = %v, want ErrUnreachable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			if res.Configured != tt.configured {
				t.Fatalf("Configured = %v, want %v (reason %q)", res.Configured, tt.configured, res.Reason)
			}
			if tt.reason != "" && !strings.Contains(res.Reason, tt.reason) {
				t.Errorf("Reason = %q, want it to contain %q", res.Reason, tt.reason)
			}
		})
	}
}
