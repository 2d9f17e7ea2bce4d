package security

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-key-that-is-long-enough-123"

func TestSignAndParseInviteToken(t *testing.T) {
	token, err := SignInviteToken("WXYZ2345", 7, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("SignInviteToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("SignInviteToken() returned empty token")
	}

	claims, err := ParseInviteToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseInviteToken() error = %v", err)
	}
	if claims.Code != "WXYZ2345" {
		t.Errorf("Code = %q, want %q", claims.Code, "WXYZ2345")
	}
	if claims.FarmID != 7 {
		t.Errorf("FarmID = %d, want 7", claims.FarmID)
	}
}

func TestParseInviteTokenWrongSecret(t *testing.T) {
	token, err := SignInviteToken("WXYZ2345", 7, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("SignInviteToken() error = %v", err)
	}

	if _, err := ParseInviteToken(token, "a-different-secret-entirely-456789012"); err == nil {
		t.Error("expected error for wrong secret, got nil")
	}
}

func TestParseInviteTokenExpired(t *testing.T) {
	token, err := SignInviteToken("WXYZ2345", 7, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("SignInviteToken() error = %v", err)
	}

	if _, err := ParseInviteToken(token, testSecret); err == nil {
		t.Error("expected error for expired token, got nil")
	}
}

func TestParseInviteTokenGarbage(t *testing.T) {
	if _, err := ParseInviteToken("not.a.token", testSecret); err == nil {
		t.Error("expected error for malformed token, got nil")
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "Daisy", "Daisy"},
		{"trims whitespace", "  Feed Bags  ", "Feed Bags"},
		{"strips tags", "<b>Bella</b>", "Bella"},
		{"strips script", "<script>alert(1)</script>Moo", "Moo"},
		{"keeps unicode", "آبیاری مزرعه", "آبیاری مزرعه"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeText(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	if strings.Contains(SanitizeText("<img src=x onerror=alert(1)>hay"), "<") {
		t.Error("sanitized output still contains markup")
	}
}
