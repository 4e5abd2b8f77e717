package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"irrigation_panel/internal/models"
	"irrigation_panel/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = time.Hour

// Domain errors for auth flows.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidUsername = errors.New("invalid username")
	ErrUserNotFound    = errors.New("operator not found")
	ErrInvalidToken    = errors.New("invalid token")
)

// AuthService signs in panel operators and issues bearer tokens naming them.
type AuthService struct {
	operators  repository.Operators
	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time
}

func NewAuthService(repo repository.Operators, signingKey string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{operators: repo, signingKey: []byte(signingKey), tokenTTL: ttl, now: time.Now}
}

// normalizeUsername makes logins case- and whitespace-insensitive.
func normalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SignUp hashes password and creates a new operator.
func (s *AuthService) SignUp(username, password string) (int, error) {
	username = normalizeUsername(username)
	if username == "" {
		return 0, ErrInvalidUsername
	}
	hash, err := hashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPassword, err)
	}
	return s.operators.Create(username, hash)
}

// Claims identify the operator a token was issued to.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// GenerateToken validates credentials and returns a signed JWT.
func (s *AuthService) GenerateToken(username, password string) (string, error) {
	op, err := s.operators.GetByUsername(normalizeUsername(username))
	if err != nil {
		return "", err
	}
	if op == nil {
		return "", ErrUserNotFound
	}

	if err := verifyPassword(op.PasswordHash, password); err != nil {
		return "", ErrInvalidPassword
	}

	return s.issueToken(*op)
}

// ParseToken validates accessToken and returns the operator it names.
func (s *AuthService) ParseToken(accessToken string) (models.Operator, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return models.Operator{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 || claims.Username == "" {
		return models.Operator{}, ErrInvalidToken
	}

	return models.Operator{ID: claims.UserID, Username: claims.Username}, nil
}

func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// issueToken signs a JWT for op valid for the configured TTL.
func (s *AuthService) issueToken(op models.Operator) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   op.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   op.ID,
		Username: op.Username,
	})
	return token.SignedString(s.signingKey)
}
