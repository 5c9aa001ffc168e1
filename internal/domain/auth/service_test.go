package auth

import (
	"context"
	"testing"
	"time"

	"github.com/kei-test/mega/internal/domain/experience"
	"github.com/kei-test/mega/internal/domain/history"
	"github.com/kei-test/mega/internal/domain/member/aggregate"
	"github.com/kei-test/mega/internal/platform/errors"
	platformtesting "github.com/kei-test/mega/internal/platform/testing"
)

type fakeUsers struct {
	byName map[string]*aggregate.User
	saved  int
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*aggregate.User, error) {
	return f.byName[username], nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uint) (*aggregate.User, error) {
	for _, u := range f.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) Save(_ context.Context, user *aggregate.User) error {
	f.saved++
	f.byName[user.Username] = user
	return nil
}

type fakeWallets struct {
	byUser map[uint]*aggregate.Wallet
}

func (f *fakeWallets) FindByUserID(_ context.Context, userID uint) (*aggregate.Wallet, error) {
	return f.byUser[userID], nil
}

type fakeGate struct {
	denyReason  string
	allowlisted bool
	checks      int
}

func (f *fakeGate) Check(_ context.Context, _ *aggregate.User, _ string) error {
	f.checks++
	if f.denyReason != "" {
		return errors.New(errors.KindPolicy, "gate.check", f.denyReason)
	}
	return nil
}

func (f *fakeGate) Allowlisted(_ context.Context, _ string) bool {
	return f.allowlisted
}

type countingVerifier struct {
	calls int
	pass  bool
}

func (c *countingVerifier) Verify(_, _ string) bool {
	c.calls++
	return c.pass
}

type capturingRecorder struct {
	events []history.Event
}

func (c *capturingRecorder) Record(_ context.Context, e history.Event) {
	c.events = append(c.events, e)
}

func (c *capturingRecorder) byChannel(ch history.Channel) []history.Event {
	var out []history.Event
	for _, e := range c.events {
		if e.Channel == ch {
			out = append(out, e)
		}
	}
	return out
}

type countingAwarder struct {
	calls int
}

func (c *countingAwarder) AwardDaily(_ context.Context, _ uint, _ int64, _ string, _ experience.Category) error {
	c.calls++
	return nil
}

type pipeline struct {
	svc      *Service
	users    *fakeUsers
	gate     *fakeGate
	verifier *countingVerifier
	recorder *capturingRecorder
	awarder  *countingAwarder
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	approveIP := "10.1.1.1"
	users := &fakeUsers{byName: map[string]*aggregate.User{
		"alpha": {ID: 1, Username: "alpha", Nickname: "Alpha", Role: aggregate.RoleUser, Password: "hash"},
		"boss":  {ID: 2, Username: "boss", Role: aggregate.RoleAdmin, Password: "hash", ApproveIP: &approveIP},
	}}
	wallets := &fakeWallets{byUser: map[uint]*aggregate.Wallet{
		1: {UserID: 1, SportsBalance: 500, Point: 30},
	}}
	gate := &fakeGate{}
	verifier := &countingVerifier{pass: true}
	recorder := &capturingRecorder{}
	awarder := &countingAwarder{}

	tokens, err := NewTokenIssuer("test-secret", time.Hour)
	platformtesting.AssertNoError(t, err, "token issuer")

	svc := NewService(users, wallets, gate, verifier, tokens, recorder, awarder,
		StaticGeoResolver("KR"), platformtesting.Logger(t))
	return &pipeline{svc: svc, users: users, gate: gate, verifier: verifier, recorder: recorder, awarder: awarder}
}

func TestService_Login_UnknownUser(t *testing.T) {
	p := newPipeline(t)

	_, err := p.svc.Login(context.Background(), LoginRequest{
		Username: "ghost", Password: "pw", IP: "10.2.2.2", UserAgent: "curl",
	})

	if !errors.IsKind(err, errors.KindCredentials) {
		t.Fatalf("expected credentials error, got %v", err)
	}
	if got := errors.Reason(err); got != GenericFailure {
		t.Fatalf("expected generic failure message, got %q", got)
	}
	if p.verifier.calls != 0 {
		t.Fatalf("verifier must not run for unknown users, ran %d times", p.verifier.calls)
	}

	attempts := p.recorder.byChannel(history.ChannelAttempt)
	if len(attempts) != 1 || attempts[0].Username != "ghost" {
		t.Fatalf("expected one raw attempt for ghost, got %+v", attempts)
	}
	admin := p.recorder.byChannel(history.ChannelAdmin)
	if len(admin) != 1 || admin[0].Success {
		t.Fatalf("expected one failed admin row, got %+v", admin)
	}
	if len(p.recorder.byChannel(history.ChannelSuccess)) != 0 {
		t.Fatal("no success rows for a failed login")
	}
}

func TestService_Login_HappyPath(t *testing.T) {
	p := newPipeline(t)

	result, err := p.svc.Login(context.Background(), LoginRequest{
		Username: "alpha", Password: "pw", IP: "10.2.2.2",
		UserAgent: "Mozilla/5.0 (iPhone)",
	})
	platformtesting.AssertNoError(t, err, "login")

	if result.Token == "" {
		t.Fatal("expected a session token")
	}
	if result.Wallet == nil || result.Wallet.SportsBalance != 500 {
		t.Fatalf("expected wallet for ordinary member, got %+v", result.Wallet)
	}

	user := p.users.byName["alpha"]
	if user.VisitCount != 1 || user.LastAccessedIP != "10.2.2.2" {
		t.Fatalf("visit metadata not updated: %+v", user)
	}
	if user.LastAccessedDevice != DeviceMobile {
		t.Fatalf("expected mobile device, got %q", user.LastAccessedDevice)
	}
	if user.LastAccessedCountry != "KR" {
		t.Fatalf("expected country KR, got %q", user.LastAccessedCountry)
	}

	success := p.recorder.byChannel(history.ChannelSuccess)
	if len(success) != 1 || !success[0].RecordConnection {
		t.Fatalf("expected one success event with connection info, got %+v", success)
	}
	if len(p.recorder.byChannel(history.ChannelMirror)) != 1 {
		t.Fatal("expected one mirror copy of the attempt")
	}
	if p.awarder.calls != 1 {
		t.Fatalf("expected one login exp award, got %d", p.awarder.calls)
	}
}

func TestService_Login_ElevatedAlsoEarnsLoginExp(t *testing.T) {
	p := newPipeline(t)

	result, err := p.svc.Login(context.Background(), LoginRequest{
		Username: "boss", Password: "pw", IP: "10.1.1.1", UserAgent: "curl",
	})
	platformtesting.AssertNoError(t, err, "admin login")

	if p.awarder.calls != 1 {
		t.Fatalf("expected one login exp award for elevated login, got %d", p.awarder.calls)
	}
	if result.Wallet != nil {
		t.Fatal("elevated accounts must not expose a wallet")
	}

	success := p.recorder.byChannel(history.ChannelSuccess)
	if len(success) != 1 || success[0].RecordConnection {
		t.Fatalf("expected success event without connection info, got %+v", success)
	}
}

func TestService_Login_PolicyDeniedBeforeVerifier(t *testing.T) {
	p := newPipeline(t)
	p.gate.denyReason = "unapproved IP"

	_, err := p.svc.Login(context.Background(), LoginRequest{
		Username: "boss", Password: "pw", IP: "10.9.9.9", UserAgent: "curl",
	})

	if !errors.IsKind(err, errors.KindPolicy) {
		t.Fatalf("expected policy error, got %v", err)
	}
	if got := errors.Reason(err); got != "unapproved IP" {
		t.Fatalf("expected denial reason, got %q", got)
	}
	if p.verifier.calls != 0 {
		t.Fatalf("verifier must not run after a policy denial, ran %d times", p.verifier.calls)
	}
	if p.gate.checks != 1 {
		t.Fatalf("expected exactly one gate check, got %d", p.gate.checks)
	}
}

func TestService_Login_WrongPassword(t *testing.T) {
	p := newPipeline(t)
	p.verifier.pass = false

	_, err := p.svc.Login(context.Background(), LoginRequest{
		Username: "alpha", Password: "wrong", IP: "10.2.2.2", UserAgent: "curl",
	})

	if got := errors.Reason(err); got != GenericFailure {
		t.Fatalf("expected generic failure message, got %q", got)
	}
	if p.users.saved != 0 {
		t.Fatal("visit metadata must not change on failure")
	}
}

func TestService_Login_AllowlistedSkipsAdminLog(t *testing.T) {
	p := newPipeline(t)
	p.gate.allowlisted = true

	_, err := p.svc.Login(context.Background(), LoginRequest{
		Username: "alpha", Password: "pw", IP: "10.1.1.1", UserAgent: "curl",
	})
	platformtesting.AssertNoError(t, err, "login")

	if got := len(p.recorder.byChannel(history.ChannelAdmin)); got != 0 {
		t.Fatalf("allowlisted source must skip the admin log, got %d rows", got)
	}
	// Ordinary members are tracked even from allowlisted addresses.
	if got := len(p.recorder.byChannel(history.ChannelAttempt)); got != 1 {
		t.Fatalf("expected the raw attempt row, got %d", got)
	}
}
