package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
	"github.com/ebhcs/bulletin-board/internal/core/ports"
)

const (
	advisorDomain = "ebhcs.org"
	maxAttempts   = 5
	// LockoutWindow is how long a username stays locked after its fifth
	// consecutive failure. A client-side style throttle: the authoritative
	// boundary is the credential check itself.
	LockoutWindow = 15 * time.Minute
)

var ErrEmptyIdentifier = errors.New("please enter your username or @ebhcs.org email")
var ErrWrongDomain = errors.New("please use your @ebhcs.org advisor email")
var ErrBadUsername = errors.New("usernames may only contain lowercase letters, digits, '.', '-' and '_'")

var usernamePattern = regexp.MustCompile(`^[a-z0-9._-]+$`)

// ParseLoginIdentifier accepts either a bare username or a full
// name@ebhcs.org address and returns both forms. Any other domain is
// rejected.
func ParseLoginIdentifier(raw string) (ports.Identifier, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ports.Identifier{}, ErrEmptyIdentifier
	}

	if at := strings.IndexByte(raw, '@'); at >= 0 {
		name, dom := raw[:at], raw[at+1:]
		if dom != advisorDomain {
			return ports.Identifier{}, ErrWrongDomain
		}
		if name == "" || !usernamePattern.MatchString(name) {
			return ports.Identifier{}, ErrBadUsername
		}
		return ports.Identifier{Username: name, Email: raw}, nil
	}

	if !usernamePattern.MatchString(raw) {
		return ports.Identifier{}, ErrBadUsername
	}
	return ports.Identifier{Username: raw, Email: raw + "@" + advisorDomain}, nil
}

// LockoutStore tracks consecutive login failures per username. Entries
// expire LockoutWindow after the last failure.
type LockoutStore interface {
	Failures(ctx context.Context, username string) (int, error)
	RecordFailure(ctx context.Context, username string) (int, error)
	Reset(ctx context.Context, username string) error
}

// AuthService implements advisor login, registration and password flows.
type AuthService struct {
	repo      ports.AdvisorRepository
	lockouts  LockoutStore
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.AdvisorRepository, lockouts LockoutStore, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, lockouts: lockouts, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// Login authenticates an advisor by username or email. After five
// consecutive failures the username is rejected outright until the lockout
// window lapses; the counter resets on the first success.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (string, *domain.Advisor, error) {
	id, err := ParseLoginIdentifier(identifier)
	if err != nil {
		return "", nil, err
	}
	if password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	failures, err := s.lockouts.Failures(ctx, id.Username)
	if err != nil {
		s.logger.Warn().Err(err).Str("username", id.Username).Msg("lockout check failed, evaluating login anyway")
	} else if failures >= maxAttempts {
		return "", nil, domain.ErrLockedOut
	}

	advisor, err := s.repo.FindByUsername(ctx, id.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, id.Username)
		}
		return "", nil, err
	}
	if advisor.Disabled {
		return "", nil, domain.ErrUserDisabled
	}

	if bcrypt.CompareHashAndPassword([]byte(advisor.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, id.Username)
		return "", nil, domain.ErrInvalidCredentials
	}

	if err := s.lockouts.Reset(ctx, id.Username); err != nil {
		s.logger.Warn().Err(err).Str("username", id.Username).Msg("failed to reset lockout counter")
	}

	token, err := s.generateToken(advisor)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("username", advisor.Username).Msg("advisor logged in")
	return token, advisor, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	count, err := s.lockouts.RecordFailure(ctx, username)
	if err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
		return
	}
	if count >= maxAttempts {
		s.logger.Warn().Str("username", username).Int("failures", count).Msg("username locked out")
	}
}

// Register creates a new advisor account.
func (s *AuthService) Register(ctx context.Context, username, password, displayName, role string) (*domain.Advisor, error) {
	id, err := ParseLoginIdentifier(username)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin && role != domain.RoleAdvisor {
		return nil, domain.ErrInvalidCredentials
	}
	if len(password) < 8 {
		return nil, domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if displayName == "" {
		displayName = domain.DisplayNameFor(id.Username)
	}

	now := time.Now().UTC()
	advisor := &domain.Advisor{
		Username:     id.Username,
		DisplayName:  displayName,
		Email:        id.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.Create(ctx, advisor)
}

// RequestPasswordReset hands the reset off to the identity provider. The
// response never reveals whether the account exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, identifier string) error {
	id, err := ParseLoginIdentifier(identifier)
	if err != nil {
		return err
	}

	if _, err := s.repo.FindByUsername(ctx, id.Username); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Info().Str("email", id.Email).Msg("password reset requested for unknown account")
			return nil
		}
		return err
	}

	s.logger.Info().Str("email", id.Email).Msg("password reset email requested")
	return nil
}

// ChangePassword re-authenticates with the current password and stores a
// new hash.
func (s *AuthService) ChangePassword(ctx context.Context, username, current, next string) error {
	advisor, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(advisor.PasswordHash), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}
	if len(next) < 8 {
		return domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, username, string(hash)); err != nil {
		return err
	}

	s.logger.Info().Str("username", username).Msg("password changed")
	return nil
}

func (s *AuthService) generateToken(advisor *domain.Advisor) (string, error) {
	claims := jwt.MapClaims{
		"username":     advisor.Username,
		"display_name": advisor.DisplayName,
		"role":         advisor.Role,
		"exp":          time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
