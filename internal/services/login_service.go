package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"medresearch/internal/models"
	"medresearch/internal/repositories"
)

// Expected login outcomes. None of these are system errors; handlers
// translate them to their HTTP shape.
var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrInvalidTOTPCode    = errors.New("Invalid TOTP code")
	ErrTOTPCodeRequired   = errors.New("TOTP code required")
)

// AccountLockedError names the instant the lock expires.
type AccountLockedError struct {
	Until time.Time
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("Account is locked until %s", e.Until.UTC().Format(time.RFC3339))
}

// LoginResult is either a setup prompt or an issued token, never both.
type LoginResult struct {
	SetupRequired   bool
	ProvisioningURI string
	AccessToken     string
}

type LoginService interface {
	Login(email, password, totpCode string) (*LoginResult, error)
}

type loginService struct {
	users  repositories.UserRepository
	auth   AuthService
	totp   TOTPService
	tokens TokenService

	now func() time.Time // injectable for tests
}

func NewLoginService(
	users repositories.UserRepository,
	auth AuthService,
	totp TOTPService,
	tokens TokenService,
) LoginService {
	return &loginService{
		users:  users,
		auth:   auth,
		totp:   totp,
		tokens: tokens,
		now:    time.Now,
	}
}

// Login runs the full protocol: lookup -> lock check -> password check ->
// lazy TOTP enrollment -> code check -> success bookkeeping -> token.
// Every branch that mutates account state persists that mutation before
// returning.
func (s *loginService) Login(email, password, totpCode string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// indistinguishable from a wrong password, so the endpoint
			// cannot be used to enumerate accounts
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.now()

	// lock check comes before any password comparison
	if IsLocked(user, now) {
		log.Printf("[auth][login] locked account userID=%d until=%s", user.ID, user.LockUntil.UTC().Format(time.RFC3339))
		return nil, &AccountLockedError{Until: *user.LockUntil}
	}

	if !s.auth.VerifyPassword(user.PasswordHash, password) {
		if err := s.persistFailure(user, now); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	// first password-valid login with no secret: enroll lazily
	if user.TOTPSecret == nil {
		secret, err := s.totp.GenerateSecret()
		if err != nil {
			return nil, err
		}
		// the repository only writes while no secret exists, so a
		// concurrent enrollment cannot overwrite the first one
		if err := s.users.SetTOTPSecret(user.ID, secret); err != nil {
			return nil, err
		}
		fresh, err := s.users.GetByEmail(email)
		if err != nil {
			return nil, err
		}
		if fresh.TOTPSecret != nil {
			secret = *fresh.TOTPSecret
		}
		return s.setupResult(secret, user.Email)
	}

	// secret exists but not yet verified, no code supplied: repeat the
	// prompt with the same stored secret
	if !user.IsTOTPVerified && totpCode == "" {
		return s.setupResult(*user.TOTPSecret, user.Email)
	}

	if totpCode == "" {
		return nil, ErrTOTPCodeRequired
	}

	if !s.totp.Verify(*user.TOTPSecret, totpCode, now) {
		if err := s.persistFailure(user, now); err != nil {
			return nil, err
		}
		return nil, ErrInvalidTOTPCode
	}

	if !user.IsTOTPVerified {
		if err := s.users.MarkTOTPVerified(user.ID); err != nil {
			return nil, err
		}
	}

	RecordSuccess(user)
	if err := s.users.UpdateLoginState(user.ID, user.FailedLoginAttempts, user.LockUntil); err != nil {
		return nil, err
	}

	roles, err := s.users.GetRoleNames(user.ID)
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.Issue(user, roles, now)
	if err != nil {
		return nil, err
	}
	log.Printf("[auth][login] success userID=%d roles=%v", user.ID, roles)
	return &LoginResult{AccessToken: token}, nil
}

func (s *loginService) persistFailure(user *models.User, now time.Time) error {
	RecordFailure(user, now)
	return s.users.UpdateLoginState(user.ID, user.FailedLoginAttempts, user.LockUntil)
}

func (s *loginService) setupResult(secret, email string) (*LoginResult, error) {
	uri, err := s.totp.ProvisioningURI(secret, email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{SetupRequired: true, ProvisioningURI: uri}, nil
}
