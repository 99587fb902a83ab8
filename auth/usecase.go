package auth

import (
	"context"
	"moviecatalog/errs"
	"strings"
	"time"
)

const RoleAdmin = "admin"

var (
	ErrInvalidCredentials = errs.Errorf(errs.EUNAUTHORIZED, "Invalid email or password")
	ErrAccountLocked      = errs.Errorf(errs.EUNAUTHORIZED, "Account temporarily locked, try again later")
)

type Service interface {
	Login(ctx context.Context, email, password string) (Token, error)
}

// Admin is the identity carried by an issued token.
type Admin struct {
	Email string
	Role  string
}

type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Credentials of the single catalog administrator. PasswordHash is a bcrypt
// hash; an empty Email disables login.
type Credentials struct {
	Email        string
	PasswordHash string
}

type LoginAttempt struct {
	FailedCount int
	JailedUntil time.Time
}

type LoginAttemptRepository interface {
	Get(ctx context.Context, email string) (LoginAttempt, error)
	Save(ctx context.Context, email string, attempt LoginAttempt) error
	Reset(ctx context.Context, email string) error
}

type PasswordHasher interface {
	Compare(hashed, plain string) error
}

type TokenProvider interface {
	GenerateAccessToken(a Admin) (Token, error)
}

type Usecase struct {
	admin          Credentials
	attemptsRepo   LoginAttemptRepository
	passwordHasher PasswordHasher
	tokenProvider  TokenProvider
	maxRetries     int
	jailDuration   time.Duration
	now            func() time.Time
}

func NewUsecase(
	admin Credentials,
	attemptsRepo LoginAttemptRepository,
	passwordHasher PasswordHasher,
	tokenProvider TokenProvider,
) *Usecase {
	return &Usecase{
		admin:          admin,
		attemptsRepo:   attemptsRepo,
		passwordHasher: passwordHasher,
		tokenProvider:  tokenProvider,
		maxRetries:     5,
		jailDuration:   15 * time.Minute,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Login checks the admin credentials and issues an access token. After
// maxRetries consecutive failures the email is jailed for jailDuration.
func (uc *Usecase) Login(ctx context.Context, email, password string) (Token, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	attempt, err := uc.attemptsRepo.Get(ctx, email)
	if err != nil {
		return Token{}, err
	}

	if !attempt.JailedUntil.IsZero() {
		if attempt.JailedUntil.After(uc.now()) {
			return Token{}, ErrAccountLocked
		}
		attempt.JailedUntil = time.Time{}
		attempt.FailedCount = 0
		if err := uc.attemptsRepo.Save(ctx, email, attempt); err != nil {
			return Token{}, err
		}
	}

	if !uc.isAdmin(email) {
		if err := uc.recordFailure(ctx, email, attempt); err != nil {
			return Token{}, err
		}
		return Token{}, ErrInvalidCredentials
	}

	if err := uc.passwordHasher.Compare(uc.admin.PasswordHash, password); err != nil {
		if err := uc.recordFailure(ctx, email, attempt); err != nil {
			return Token{}, err
		}
		return Token{}, ErrInvalidCredentials
	}

	if err := uc.attemptsRepo.Reset(ctx, email); err != nil {
		return Token{}, err
	}

	return uc.tokenProvider.GenerateAccessToken(Admin{Email: email, Role: RoleAdmin})
}

func (uc *Usecase) isAdmin(email string) bool {
	configured := strings.ToLower(strings.TrimSpace(uc.admin.Email))
	return configured != "" && email == configured
}

func (uc *Usecase) recordFailure(ctx context.Context, email string, attempt LoginAttempt) error {
	attempt.FailedCount++
	if attempt.FailedCount >= uc.maxRetries {
		attempt.FailedCount = 0
		attempt.JailedUntil = uc.now().Add(uc.jailDuration)
	}
	return uc.attemptsRepo.Save(ctx, email, attempt)
}
