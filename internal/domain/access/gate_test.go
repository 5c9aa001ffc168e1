package access

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/kei-test/mega/internal/domain/member/aggregate"
	"github.com/kei-test/mega/internal/platform/errors"
	platformtesting "github.com/kei-test/mega/internal/platform/testing"
)

type stubBlocklist struct {
	blocked map[string]bool
	err     error
}

func (s *stubBlocklist) IsBlocked(_ context.Context, ip string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.blocked[ip], nil
}

type stubAllowlist struct {
	entries map[string]*AllowedIP
}

func (s *stubAllowlist) FindByIP(_ context.Context, ip string) (*AllowedIP, error) {
	return s.entries[ip], nil
}

func (s *stubAllowlist) Create(_ context.Context, entry *AllowedIP) error { return nil }
func (s *stubAllowlist) Delete(_ context.Context, id uint) error          { return nil }
func (s *stubAllowlist) List(_ context.Context, page, size int) ([]AllowedIP, int64, error) {
	return nil, 0, nil
}

func TestGate_Check(t *testing.T) {
	approveIP := "10.1.1.1"

	tests := []struct {
		name       string
		user       aggregate.User
		ip         string
		blocked    map[string]bool
		wantReason string
	}{
		{
			name:       "deleted user",
			user:       aggregate.User{Role: aggregate.RoleUser, DeletedAt: gorm.DeletedAt{Time: time.Now(), Valid: true}},
			ip:         "10.0.0.1",
			wantReason: ReasonDeleted,
		},
		{
			name:       "guest role",
			user:       aggregate.User{Role: aggregate.RoleGuest},
			ip:         "10.0.0.1",
			wantReason: ReasonGuest,
		},
		{
			name:       "unusable admin",
			user:       aggregate.User{Role: aggregate.RoleAdmin, AdminStatus: aggregate.AdminStatusUnusable, ApproveIP: &approveIP},
			ip:         approveIP,
			wantReason: ReasonUnusable,
		},
		{
			name:       "admin from unapproved address",
			user:       aggregate.User{Role: aggregate.RoleAdmin, AdminStatus: aggregate.AdminStatusUsable, ApproveIP: &approveIP},
			ip:         "10.9.9.9",
			wantReason: ReasonUnapprovedIP,
		},
		{
			name:       "admin with no approved address",
			user:       aggregate.User{Role: aggregate.RoleManager, AdminStatus: aggregate.AdminStatusUsable},
			ip:         approveIP,
			wantReason: ReasonUnapprovedIP,
		},
		{
			name:       "blocked source address",
			user:       aggregate.User{Role: aggregate.RoleUser},
			ip:         "10.6.6.6",
			blocked:    map[string]bool{"10.6.6.6": true},
			wantReason: ReasonBlockedIP,
		},
		{
			name: "ordinary member allowed",
			user: aggregate.User{Role: aggregate.RoleUser},
			ip:   "10.0.0.1",
		},
		{
			name: "admin from approved address allowed",
			user: aggregate.User{Role: aggregate.RoleAdmin, AdminStatus: aggregate.AdminStatusUsable, ApproveIP: &approveIP},
			ip:   approveIP,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(
				&stubBlocklist{blocked: tt.blocked},
				&stubAllowlist{},
				platformtesting.Logger(t),
			)

			err := gate.Check(context.Background(), &tt.user, tt.ip)
			if tt.wantReason == "" {
				platformtesting.AssertNoError(t, err, "check")
				return
			}
			if !errors.IsKind(err, errors.KindPolicy) {
				t.Fatalf("expected policy error, got %v", err)
			}
			if got := errors.Reason(err); got != tt.wantReason {
				t.Fatalf("expected reason %q, got %q", tt.wantReason, got)
			}
		})
	}
}

func TestGate_BlocklistBeatsApprovedIP(t *testing.T) {
	// An admin on its approved address is still rejected when that address
	// is blocklisted.
	approveIP := "10.1.1.1"
	gate := NewGate(
		&stubBlocklist{blocked: map[string]bool{approveIP: true}},
		&stubAllowlist{},
		platformtesting.Logger(t),
	)

	user := aggregate.User{Role: aggregate.RoleAdmin, AdminStatus: aggregate.AdminStatusUsable, ApproveIP: &approveIP}
	err := gate.Check(context.Background(), &user, approveIP)
	if got := errors.Reason(err); got != ReasonBlockedIP {
		t.Fatalf("expected blocked IP denial, got %q (err %v)", got, err)
	}
}

func TestGate_Allowlisted(t *testing.T) {
	gate := NewGate(
		&stubBlocklist{},
		&stubAllowlist{entries: map[string]*AllowedIP{
			"10.1.1.1": {IP: "10.1.1.1"},
		}},
		platformtesting.Logger(t),
	)

	if !gate.Allowlisted(context.Background(), "10.1.1.1") {
		t.Fatal("expected allowlisted")
	}
	if gate.Allowlisted(context.Background(), "10.2.2.2") {
		t.Fatal("expected not allowlisted")
	}
}
