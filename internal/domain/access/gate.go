package access

import (
	"context"
	"log/slog"

	"github.com/kei-test/mega/internal/domain/member/aggregate"
	"github.com/kei-test/mega/internal/platform/errors"
)

// Denial reasons surfaced to the login response.
const (
	ReasonDeleted      = "deleted user"
	ReasonGuest        = "guests cannot log in"
	ReasonUnusable     = "account is in an unusable state"
	ReasonUnapprovedIP = "unapproved IP"
	ReasonBlockedIP    = "access from this IP is blocked"
)

// Gate decides whether a resolved identity may proceed to credential
// verification for a login attempt from the given source IP.
type Gate struct {
	blocklist BlocklistReader
	allowlist AllowlistRepository
	logger    *slog.Logger
}

func NewGate(blocklist BlocklistReader, allowlist AllowlistRepository, logger *slog.Logger) *Gate {
	return &Gate{
		blocklist: blocklist,
		allowlist: allowlist,
		logger:    logger,
	}
}

// Check evaluates the policy rules in order and returns a policy error on
// the first denial. A nil error means the credential check may proceed.
func (g *Gate) Check(ctx context.Context, user *aggregate.User, ip string) error {
	const op = "gate.check"

	if user.DeletedAt.Valid {
		return errors.New(errors.KindPolicy, op, ReasonDeleted)
	}
	if !user.Role.CanLogin() {
		return errors.New(errors.KindPolicy, op, ReasonGuest)
	}
	if user.Role.Elevated() {
		if user.AdminStatus == aggregate.AdminStatusUnusable {
			return errors.New(errors.KindPolicy, op, ReasonUnusable)
		}
		if user.ApproveIP == nil || *user.ApproveIP != ip {
			return errors.New(errors.KindPolicy, op, ReasonUnapprovedIP)
		}
	}

	blocked, err := g.blocklist.IsBlocked(ctx, ip)
	if err != nil {
		return errors.Wrap(errors.KindStorage, op, "blocklist lookup failed", err)
	}
	if blocked {
		return errors.New(errors.KindPolicy, op, ReasonBlockedIP)
	}
	return nil
}

// Allowlisted reports whether the source IP has an allowlist entry. Lookup
// failures count as not allowlisted so the attempt logs stay complete.
func (g *Gate) Allowlisted(ctx context.Context, ip string) bool {
	entry, err := g.allowlist.FindByIP(ctx, ip)
	if err != nil {
		g.logger.Warn("allowlist lookup failed", "ip", ip, "error", err)
		return false
	}
	return entry != nil
}
