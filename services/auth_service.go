package services

import (
	"errors"
	"time"

	"traffic-hotspot-api/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const RoleAdmin = "admin"

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	jwtSecret []byte
	expiryH   int

	adminUser string
	adminHash []byte
}

// NewAuthService signs operator tokens. When no bcrypt hash is configured the
// plain admin password is hashed once here; with neither set, login is closed.
func NewAuthService(cfg config.JWTConfig, admin config.AdminConfig) (*AuthService, error) {
	s := &AuthService{
		jwtSecret: []byte(cfg.Secret),
		expiryH:   cfg.ExpiryHours,
		adminUser: admin.Username,
	}
	switch {
	case admin.PasswordHash != "":
		s.adminHash = []byte(admin.PasswordHash)
	case admin.Password != "":
		hash, err := s.HashPassword(admin.Password)
		if err != nil {
			return nil, err
		}
		s.adminHash = []byte(hash)
	}
	return s, nil
}

func (s *AuthService) HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

func (s *AuthService) CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Authenticate checks operator credentials and returns a signed admin token.
func (s *AuthService) Authenticate(username, password string) (string, error) {
	if s.adminHash == nil || username != s.adminUser {
		return "", ErrInvalidCredentials
	}
	if !s.CheckPassword(string(s.adminHash), password) {
		return "", ErrInvalidCredentials
	}
	return s.GenerateToken(username, RoleAdmin)
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *AuthService) GenerateToken(subject, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expiryH) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return s.jwtSecret, nil
		},
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
