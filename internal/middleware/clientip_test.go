package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTrustedProxiesResolve(t *testing.T) {
	tp, err := ParseTrustedProxies("10.0.0.0/8, 192.168.1.5")
	if err != nil {
		t.Fatalf("ParseTrustedProxies: %v", err)
	}

	tests := []struct {
		name    string
		proxies *TrustedProxies
		headers map[string]string
		remote  string
		want    string
	}{
		{"untrusted peer ignores headers", tp, map[string]string{"CF-Connecting-IP": "1.1.1.1", "X-Forwarded-For": "2.2.2.2"}, "3.3.3.3:1234", "3.3.3.3"},
		{"no proxies configured", nil, map[string]string{"X-Forwarded-For": "2.2.2.2"}, "10.0.0.1:1234", "10.0.0.1"},
		{"cloudflare via trusted peer", tp, map[string]string{"CF-Connecting-IP": "1.1.1.1"}, "10.0.0.1:1234", "1.1.1.1"},
		{"rightmost untrusted hop", tp, map[string]string{"X-Forwarded-For": "9.9.9.9, 2.2.2.2, 10.1.1.1"}, "192.168.1.5:443", "2.2.2.2"},
		{"all hops trusted", tp, map[string]string{"X-Forwarded-For": "10.2.2.2, 10.1.1.1"}, "10.0.0.1:1234", "10.2.2.2"},
		{"trusted peer without headers", tp, nil, "10.0.0.1:1234", "10.0.0.1"},
		{"remote without port", tp, nil, "3.3.3.3", "3.3.3.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := tt.proxies.Resolve(req); got != tt.want {
				t.Errorf("Resolve = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTrustedProxiesRejectsGarbage(t *testing.T) {
	if _, err := ParseTrustedProxies("10.0.0.0/8, not-an-ip"); err == nil {
		t.Error("expected error for invalid entry")
	}
	tp, err := ParseTrustedProxies("")
	if err != nil {
		t.Fatalf("empty list: %v", err)
	}
	if tp.trusts("127.0.0.1") {
		t.Error("empty list should trust nobody")
	}
}

func TestClientIPFeedsRealIP(t *testing.T) {
	var got string
	handler := ClientIP(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = RealIP(r)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "3.3.3.3:1234"
	req.Header.Set("X-Forwarded-For", "2.2.2.2")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if got != "3.3.3.3" {
		t.Errorf("RealIP = %q, want %q", got, "3.3.3.3")
	}

	bare := httptest.NewRequest("GET", "/", nil)
	bare.RemoteAddr = "4.4.4.4:80"
	if ip := RealIP(bare); ip != "4.4.4.4" {
		t.Errorf("RealIP without middleware = %q, want %q", ip, "4.4.4.4")
	}
}
