package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/newriverone/portal/configs"
	"github.com/newriverone/portal/internal/core/ports"
)

// ErrPasswordIncorrect is returned when the gate password does not match.
var ErrPasswordIncorrect = errors.New("password incorrect")

// GateService guards the portal behind a single shared secret. The secret
// is hashed once at startup so the plaintext never sits in the service.
type GateService struct {
	hash     []byte
	secret   []byte
	tokenTTL time.Duration
	logger   *logrus.Logger
}

func NewGateService(cfg *configs.GateConfig, logger *logrus.Logger) (*GateService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash gate password: %w", err)
	}
	return &GateService{
		hash:     hash,
		secret:   []byte(cfg.Secret),
		tokenTTL: cfg.TokenTTL,
		logger:   logger,
	}, nil
}

// Unlock compares the submitted password against the gate secret and issues
// a signed token the client keeps in place of re-entering the password.
func (s *GateService) Unlock(password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(strings.TrimSpace(password))); err != nil {
		if s.logger != nil {
			s.logger.Debug("gate: password mismatch")
		}
		return "", ErrPasswordIncorrect
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "portal-gate",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign gate token: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("gate: unlocked")
	}
	return signed, nil
}

// Verify checks a previously issued gate token.
func (s *GateService) Verify(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC (prevent alg confusion)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return fmt.Errorf("invalid gate token: %w", err)
	}
	if !token.Valid {
		return errors.New("invalid gate token")
	}
	return nil
}

var _ ports.GateService = (*GateService)(nil)
