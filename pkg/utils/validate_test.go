package utils

import "testing"

func TestValidateRedirectScheme(t *testing.T) {
	tests := []struct {
		url string
		ok  bool
	}{
		{"https://example.com", true},
		{"http://example.com/path?q=1", true},
		{"HTTPS://example.com", true},
		{"javascript:alert(1)", false},
		{"data:text/html;base64,PHNjcmlwdD4=", false},
		{"ftp://example.com/file", false},
		{"//example.com", false},
		{"example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		err := ValidateRedirectScheme(tt.url)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateRedirectScheme(%q) err = %v, want ok=%v", tt.url, err, tt.ok)
		}
	}
}

func TestValidateDestinationURL(t *testing.T) {
	long := "https://example.com/" + string(make([]byte, MaxURLLength))
	tests := []struct {
		url string
		ok  bool
	}{
		{"https://example.com", true},
		{"", false},
		{"https://exa mple.com", false},
		{"https://", false},
		{"javascript:alert(1)", false},
		{long, false},
	}
	for _, tt := range tests {
		err := ValidateDestinationURL(tt.url)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateDestinationURL(%.40q) err = %v, want ok=%v", tt.url, err, tt.ok)
		}
	}
}

func TestHostname(t *testing.T) {
	if got := NormalizeHostname(" QR.Example.COM:443 "); got != "qr.example.com" {
		t.Errorf("NormalizeHostname = %q", got)
	}
	if got := NormalizeHostname("qr.example.com."); got != "qr.example.com" {
		t.Errorf("NormalizeHostname = %q", got)
	}

	for _, h := range []string{"qr.example.com", "a.b.example.co"} {
		if err := ValidateHostname(h); err != nil {
			t.Errorf("ValidateHostname(%q) = %v", h, err)
		}
	}
	for _, h := range []string{"", "localhost", "192.168.1.1", "-bad.example.com", "under_score.example.com"} {
		if err := ValidateHostname(h); err == nil {
			t.Errorf("ValidateHostname(%q) should fail", h)
		}
	}
}
