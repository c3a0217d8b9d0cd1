package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/s21platform/roundtable-service/internal/model"
)

const defaultTTL = 30 * time.Minute

var ErrChannelMismatch = errors.New("subscribe token channel does not match thread")

type Option func(*Generator)

func WithTTL(ttl time.Duration) Option {
	return func(g *Generator) {
		g.ttl = ttl
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

type Generator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret string, opts ...Option) *Generator {
	g := &Generator{
		secret: []byte(secret),
		ttl:    defaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) registered(userID string) (jwt.RegisteredClaims, time.Time) {
	now := g.now()
	expiresAt := now.Add(g.ttl)
	return jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}, expiresAt
}

func (g *Generator) sign(claims jwt.Claims, kind string) (string, error) {
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s JWT token: %w", kind, err)
	}
	return tokenString, nil
}

func (g *Generator) parse(tokenString string, claims jwt.Claims, kind string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return g.secret, nil
	}, jwt.WithTimeFunc(g.now))
	if err != nil {
		return fmt.Errorf("failed to parse %s JWT token: %w", kind, err)
	}
	if !token.Valid {
		return fmt.Errorf("invalid %s JWT token", kind)
	}
	return nil
}

func (g *Generator) GenerateConnectToken(userID string) (string, int64, error) {
	registered, expiresAt := g.registered(userID)

	tokenString, err := g.sign(model.CentrifugoConnectClaims{RegisteredClaims: registered}, "connect")
	if err != nil {
		return "", 0, err
	}
	return tokenString, expiresAt.Unix(), nil
}

// GenerateSubscribeToken grants userID access to the round channel of threadID.
func (g *Generator) GenerateSubscribeToken(userID, threadID string) (string, int64, error) {
	registered, expiresAt := g.registered(userID)

	claims := model.CentrifugoSubscribeClaims{
		RegisteredClaims: registered,
		Channel:          model.RoundChannel(threadID),
		UserID:           userID,
		ThreadID:         threadID,
	}

	tokenString, err := g.sign(claims, "subscribe")
	if err != nil {
		return "", 0, err
	}
	return tokenString, expiresAt.Unix(), nil
}

func (g *Generator) ValidateConnectToken(tokenString string) (*model.CentrifugoConnectClaims, error) {
	claims := &model.CentrifugoConnectClaims{}
	if err := g.parse(tokenString, claims, "connect"); err != nil {
		return nil, err
	}
	return claims, nil
}

func (g *Generator) ValidateSubscribeToken(tokenString string) (*model.CentrifugoSubscribeClaims, error) {
	claims := &model.CentrifugoSubscribeClaims{}
	if err := g.parse(tokenString, claims, "subscribe"); err != nil {
		return nil, err
	}
	if claims.Channel != model.RoundChannel(claims.ThreadID) {
		return nil, ErrChannelMismatch
	}
	return claims, nil
}
