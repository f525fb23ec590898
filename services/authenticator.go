package services

import (
	"context"
	"errors"
	"fmt"
	"law_dashboard_go/models"
	"log"
	"time"

	"gorm.io/gorm"
)

// Credentials is an email/password pair submitted on the login form
type Credentials struct {
	Email    string
	Password string
}

// AuthOutcome is the result of a credential check
type AuthOutcome struct {
	OK          bool
	Subject     string
	DisplayName string
}

// Authenticator verifies credentials. A mismatch is reported through
// AuthOutcome.OK; errors are reserved for infrastructure failures.
type Authenticator interface {
	Verify(ctx context.Context, creds Credentials) (AuthOutcome, error)
}

const (
	// PlaceholderEmail and PlaceholderPassword are the only accepted login
	// for the static gate. This is not a security mechanism.
	PlaceholderEmail       = "suzan@4morgen.com"
	PlaceholderPassword    = "4morgen"
	placeholderDisplayName = "Suzan"

	// DefaultLoginDelay mimics the latency of a remote login call
	DefaultLoginDelay = 1 * time.Second
)

// StaticAuthenticator compares credentials against one literal pair, exactly
// and case-sensitively. Non-production placeholder: no hashing, no lockout,
// no rate limiting.
type StaticAuthenticator struct {
	Email       string
	Password    string
	DisplayName string
}

// NewStaticAuthenticator returns the placeholder gate
func NewStaticAuthenticator() *StaticAuthenticator {
	log.Println("[WARNING] Using static placeholder credentials for login. Do not use in production.")
	return &StaticAuthenticator{
		Email:       PlaceholderEmail,
		Password:    PlaceholderPassword,
		DisplayName: placeholderDisplayName,
	}
}

// Verify implements Authenticator
func (a *StaticAuthenticator) Verify(ctx context.Context, creds Credentials) (AuthOutcome, error) {
	if creds.Email == a.Email && creds.Password == a.Password {
		return AuthOutcome{OK: true, Subject: a.Email, DisplayName: a.DisplayName}, nil
	}
	return AuthOutcome{}, nil
}

// UserAuthenticator checks credentials against bcrypt hashes in the users table
type UserAuthenticator struct {
	db *gorm.DB
}

// NewUserAuthenticator creates a database-backed authenticator
func NewUserAuthenticator(db *gorm.DB) *UserAuthenticator {
	return &UserAuthenticator{db: db}
}

// Verify implements Authenticator
func (a *UserAuthenticator) Verify(ctx context.Context, creds Credentials) (AuthOutcome, error) {
	var user models.User
	err := a.db.WithContext(ctx).Where("email = ?", creds.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthOutcome{}, nil
		}
		return AuthOutcome{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive || !VerifyPassword(user.Password, creds.Password) {
		return AuthOutcome{}, nil
	}

	now := time.Now()
	if err := a.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		log.Printf("[WARNING] Failed to update last login for %s: %v", user.Email, err)
	}

	return AuthOutcome{OK: true, Subject: user.Email, DisplayName: user.Name}, nil
}

// DelayedAuthenticator waits a fixed time before delegating. The delay is
// cosmetic; it stops early if ctx is cancelled.
type DelayedAuthenticator struct {
	Next  Authenticator
	Delay time.Duration
}

// Verify implements Authenticator
func (a *DelayedAuthenticator) Verify(ctx context.Context, creds Credentials) (AuthOutcome, error) {
	if a.Delay > 0 {
		timer := time.NewTimer(a.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return AuthOutcome{}, ctx.Err()
		case <-timer.C:
		}
	}
	return a.Next.Verify(ctx, creds)
}

// NewAuthenticator builds the authenticator selected by mode ("static" or
// "database"), wrapped with the login delay.
func NewAuthenticator(mode string, db *gorm.DB, delay time.Duration) (Authenticator, error) {
	var next Authenticator
	switch mode {
	case "", "static":
		next = NewStaticAuthenticator()
	case "database":
		if db == nil {
			return nil, fmt.Errorf("database authenticator requires a database connection")
		}
		next = NewUserAuthenticator(db)
	default:
		return nil, fmt.Errorf("unknown auth mode %q", mode)
	}
	return &DelayedAuthenticator{Next: next, Delay: delay}, nil
}
