package auth

import (
	"testing"
	"time"

	platformtesting "github.com/kei-test/mega/internal/platform/testing"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("secret-key", time.Hour)
	platformtesting.AssertNoError(t, err, "new issuer")

	now := time.Now()
	token, err := issuer.Issue(42, "alpha", now)
	platformtesting.AssertNoError(t, err, "issue")

	claims, err := issuer.Verify(token)
	platformtesting.AssertNoError(t, err, "verify")

	platformtesting.AssertEqual(t, uint(42), claims.UserID)
	platformtesting.AssertEqual(t, "alpha", claims.Username)
	platformtesting.AssertEqual(t, "alpha", claims.Subject)
	if got := claims.ExpiresAt.Time; !got.Equal(now.Add(time.Hour).Truncate(time.Second)) {
		t.Fatalf("unexpected expiry %v", got)
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer, err := NewTokenIssuer("secret-key", time.Minute)
	platformtesting.AssertNoError(t, err, "new issuer")

	token, err := issuer.Issue(1, "alpha", time.Now().Add(-time.Hour))
	platformtesting.AssertNoError(t, err, "issue")

	if _, err := issuer.Verify(token); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	a, err := NewTokenIssuer("secret-a", time.Hour)
	platformtesting.AssertNoError(t, err, "issuer a")
	b, err := NewTokenIssuer("secret-b", time.Hour)
	platformtesting.AssertNoError(t, err, "issuer b")

	token, err := a.Issue(1, "alpha", time.Now())
	platformtesting.AssertNoError(t, err, "issue")

	if _, err := b.Verify(token); err == nil {
		t.Fatal("expected foreign-secret token to fail verification")
	}
}

func TestTokenIssuer_EmptySecret(t *testing.T) {
	if _, err := NewTokenIssuer("", time.Hour); err == nil {
		t.Fatal("expected empty secret to be rejected")
	}
}

func TestTokenIssuer_Garbage(t *testing.T) {
	issuer, err := NewTokenIssuer("secret-key", time.Hour)
	platformtesting.AssertNoError(t, err, "new issuer")

	if _, err := issuer.Verify("not-a-token"); err == nil {
		t.Fatal("expected garbage input to fail verification")
	}
}
