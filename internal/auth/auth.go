package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/abbasrizvi-lab/todoapp/internal/db"
)

const (
	// TokenTTL is the fixed lifetime of an access token. There is no refresh
	// or revocation; a token is valid until it expires.
	TokenTTL   = 30 * time.Minute
	BcryptCost = 12
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrMissingSubject    = errors.New("token has no subject")
	ErrIncorrectPassword = errors.New("incorrect password")
)

// UserStore is the slice of the user repository the auth layer depends on.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*db.User, error)
	Insert(ctx context.Context, name, email, passwordHash string) (*db.User, error)
}

type Claims struct {
	jwt.RegisteredClaims
}

type Service struct {
	users     UserStore
	jwtSecret []byte
}

func NewService(users UserStore, jwtSecret string) *Service {
	return &Service{
		users:     users,
		jwtSecret: []byte(jwtSecret),
	}
}

// HashPassword produces a salted bcrypt hash. The salt and cost are embedded
// in the output, so the same password hashes differently on every call.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash. A malformed
// stored hash is a verification failure, not an error.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken signs an HS256 token whose subject is the user's email.
func (s *Service) IssueToken(subject string) (string, error) {
	return s.issueToken(subject, TokenTTL)
}

func (s *Service) issueToken(subject string, ttl time.Duration) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// VerifyToken checks signature and expiry and returns the subject claim.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrMissingSubject
	}

	return claims.Subject, nil
}

// Signup creates a new user. The pre-insert lookup gives the common case a
// clean conflict error; the unique index on email catches the race between
// the lookup and the insert.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*db.User, error) {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, db.ErrEmailExists
	}
	if !errors.Is(err, db.ErrUserNotFound) {
		return nil, err
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	return s.users.Insert(ctx, name, email, passwordHash)
}

// Login verifies credentials and issues a token. An unknown email and a wrong
// password surface as distinct errors per the API contract.
func (s *Service) Login(ctx context.Context, email, password string) (string, *db.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if !CheckPassword(password, user.PasswordHash) {
		return "", nil, ErrIncorrectPassword
	}

	token, err := s.IssueToken(user.Email)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
