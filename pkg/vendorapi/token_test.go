package vendorapi

import (
	"testing"
	"time"
)

func TestVerifyServiceToken_RejectsExpiredAndWrongAudience(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tok, err := SignServiceToken("secret", "v1", "vendor-api", now, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := VerifyServiceToken(tok, "secret", "vendor-api", now.Add(2*time.Minute)); err == nil {
		t.Fatalf("expected expired token to fail")
	}
	if _, err := VerifyServiceToken(tok, "secret", "other-aud", now); err == nil {
		t.Fatalf("expected audience mismatch to fail")
	}
	if _, err := VerifyServiceToken(tok, "wrong", "vendor-api", now); err == nil {
		t.Fatalf("expected bad signature to fail")
	}
}

func TestSignServiceToken_RequiresSecret(t *testing.T) {
	if _, err := SignServiceToken("", "v1", "", time.Now(), time.Minute); err == nil {
		t.Fatalf("expected error")
	}
}
