package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/kei-test/mega/internal/domain/experience"
	"github.com/kei-test/mega/internal/domain/history"
	"github.com/kei-test/mega/internal/domain/member/aggregate"
	"github.com/kei-test/mega/internal/domain/member/repository"
	"github.com/kei-test/mega/internal/platform/errors"
)

// GenericFailure is the only credential failure message ever returned. An
// unknown username and a wrong password are indistinguishable to the caller.
const GenericFailure = "invalid username or password"

// AccessGate is the policy decision surface the pipeline consults.
type AccessGate interface {
	Check(ctx context.Context, user *aggregate.User, ip string) error
	Allowlisted(ctx context.Context, ip string) bool
}

// EventRecorder receives the login events fanned out to the history sinks.
type EventRecorder interface {
	Record(ctx context.Context, e history.Event)
}

// ExperienceAwarder grants the daily login bonus.
type ExperienceAwarder interface {
	AwardDaily(ctx context.Context, userID uint, exp int64, ip string, category experience.Category) error
}

// LoginRequest carries the submitted credentials and the transport-resolved
// client facts.
type LoginRequest struct {
	Username  string
	Password  string
	IP        string
	UserAgent string
}

// LoginResult is a successful authentication. Wallet is populated for
// ordinary members only.
type LoginResult struct {
	Token  string
	User   *aggregate.User
	Wallet *aggregate.Wallet
}

// Service runs the login pipeline: an attempt phase that records the try
// and applies policy before touching credentials, then a success phase that
// issues the token and writes the side effects.
type Service struct {
	users      repository.UserRepository
	wallets    repository.WalletRepository
	gate       AccessGate
	verifier   PasswordVerifier
	tokens     *TokenIssuer
	recorder   EventRecorder
	experience ExperienceAwarder
	geo        GeoResolver
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(
	users repository.UserRepository,
	wallets repository.WalletRepository,
	gate AccessGate,
	verifier PasswordVerifier,
	tokens *TokenIssuer,
	recorder EventRecorder,
	awarder ExperienceAwarder,
	geo GeoResolver,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:      users,
		wallets:    wallets,
		gate:       gate,
		verifier:   verifier,
		tokens:     tokens,
		recorder:   recorder,
		experience: awarder,
		geo:        geo,
		logger:     logger,
		now:        time.Now,
	}
}

// Login authenticates one request. Policy denials return KindPolicy errors
// carrying the denial reason; credential failures return KindCredentials
// with the generic message. All attempt-phase events are recorded before
// any success-phase write happens.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	const op = "auth.login"
	now := s.now()

	info := s.resolveClient(ctx, req)

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, op, "resolve user", err)
	}

	allowlisted := s.gate.Allowlisted(ctx, info.IP)
	tracked := user != nil && (user.Role == aggregate.RoleUser || user.Role == aggregate.RoleTest)

	// Raw attempt log plus its external mirror copy. Allowlisted source
	// addresses are exempt unless the account is an ordinary or test member.
	if !allowlisted || tracked {
		s.recordAttempt(ctx, user, req.Username, info, now)
	}

	if user == nil {
		s.recordAdmin(ctx, nil, req.Username, info, false, now)
		return nil, errors.New(errors.KindCredentials, op, GenericFailure)
	}

	if err := s.gate.Check(ctx, user, info.IP); err != nil {
		if !allowlisted {
			s.recordAdmin(ctx, user, user.Username, info, false, now)
		}
		return nil, err
	}

	if !s.verifier.Verify(user.Password, req.Password) {
		if !allowlisted {
			s.recordAdmin(ctx, user, user.Username, info, false, now)
		}
		return nil, errors.New(errors.KindCredentials, op, GenericFailure)
	}

	// Success phase.
	token, err := s.tokens.Issue(user.ID, user.Username, now)
	if err != nil {
		return nil, errors.Wrap(errors.KindDomain, op, "issue token", err)
	}

	s.updateVisit(ctx, user, info, now)

	if !allowlisted {
		s.recordAdmin(ctx, user, user.Username, info, true, now)
	}
	s.recorder.Record(ctx, history.Event{
		Channel:          history.ChannelSuccess,
		UserID:           user.ID,
		Username:         user.Username,
		Nickname:         user.Nickname,
		Distributor:      user.Distributor,
		Success:          true,
		IP:               info.IP,
		CountryCode:      info.CountryCode,
		Device:           info.Device,
		UserAgent:        info.UserAgent,
		At:               now,
		RecordConnection: tracked,
	})

	// Every successful login earns the daily bonus, elevated roles included.
	if err := s.experience.AwardDaily(ctx, user.ID, 1, info.IP, experience.CategoryLogin); err != nil {
		s.logger.Warn("login exp award failed",
			"username", user.Username, "error", err)
	}

	result := &LoginResult{Token: token, User: user}
	if user.Role == aggregate.RoleUser {
		wallet, err := s.wallets.FindByUserID(ctx, user.ID)
		if err != nil {
			s.logger.Warn("wallet load failed",
				"username", user.Username, "error", err)
		} else {
			result.Wallet = wallet
		}
	}
	return result, nil
}

// resolveClient fills in device class and country. The geo lookup is best
// effort; failures leave the code empty.
func (s *Service) resolveClient(ctx context.Context, req LoginRequest) ClientInfo {
	info := ClientInfo{
		IP:        req.IP,
		UserAgent: req.UserAgent,
		Device:    DeviceFromUserAgent(req.UserAgent),
	}
	if s.geo != nil {
		code, err := s.geo.CountryCode(ctx, req.IP)
		if err != nil {
			s.logger.Debug("geo lookup failed", "ip", req.IP, "error", err)
		} else {
			info.CountryCode = code
		}
	}
	return info
}

func (s *Service) recordAttempt(ctx context.Context, user *aggregate.User, username string, info ClientInfo, at time.Time) {
	e := history.Event{
		Channel:     history.ChannelAttempt,
		Username:    username,
		IP:          info.IP,
		CountryCode: info.CountryCode,
		Device:      info.Device,
		UserAgent:   info.UserAgent,
		At:          at,
	}
	if user != nil {
		e.UserID = user.ID
		e.Nickname = user.Nickname
		e.Distributor = user.Distributor
	}
	s.recorder.Record(ctx, e)

	mirror := e
	mirror.Channel = history.ChannelMirror
	s.recorder.Record(ctx, mirror)
}

func (s *Service) recordAdmin(ctx context.Context, user *aggregate.User, username string, info ClientInfo, success bool, at time.Time) {
	e := history.Event{
		Channel:     history.ChannelAdmin,
		Username:    username,
		Success:     success,
		IP:          info.IP,
		CountryCode: info.CountryCode,
		Device:      info.Device,
		UserAgent:   info.UserAgent,
		At:          at,
	}
	if user != nil {
		e.UserID = user.ID
		e.Nickname = user.Nickname
		e.Distributor = user.Distributor
	}
	s.recorder.Record(ctx, e)
}

// updateVisit refreshes the visit metadata. Concurrent logins race on the
// counter; the last writer wins and the count is advisory.
func (s *Service) updateVisit(ctx context.Context, user *aggregate.User, info ClientInfo, at time.Time) {
	visit := at
	user.LastVisit = &visit
	user.VisitCount++
	user.LastAccessedIP = info.IP
	user.LastAccessedDevice = info.Device
	user.LastAccessedCountry = info.CountryCode
	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Warn("visit metadata update failed",
			"username", user.Username, "error", err)
	}
}
