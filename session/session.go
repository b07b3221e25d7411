// Package session turns bearer tokens issued by the tournament backend into a
// per-request identity and tracks tokens invalidated by logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	claimUserID = "user_id"
	claimRole   = "role"
	claimName   = "name"
	claimID     = "jti"
	claimExpiry = "exp"

	RoleAdmin = "admin"
)

var (
	ErrNoSession    = errors.New("no session in context")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenRevoked = errors.New("token has been revoked")
)

type Session struct {
	UserID    int
	Role      string
	Name      string
	Token     string
	ExpiresAt time.Time
	key       string
}

func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

type contextKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (*Session, error) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	if !ok || s == nil {
		return nil, ErrNoSession
	}
	return s, nil
}

// Provider validates tokens and remembers revoked ones until they expire.
type Provider struct {
	secret  []byte
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewProvider(secret string) *Provider {
	return &Provider{
		secret:  []byte(secret),
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Parse validates the token signature and expiry and builds a session.
func (p *Provider) Parse(tokenString string) (*Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, err := userIDFromClaims(claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	s := &Session{UserID: userID, Token: tokenString, key: tokenString}
	s.Role, _ = claims[claimRole].(string)
	s.Name, _ = claims[claimName].(string)
	if jti, ok := claims[claimID].(string); ok && jti != "" {
		s.key = jti
	}
	if exp, ok := claims[claimExpiry].(float64); ok {
		s.ExpiresAt = time.Unix(int64(exp), 0)
	}

	if p.isRevoked(s.key) {
		return nil, ErrTokenRevoked
	}
	return s, nil
}

func userIDFromClaims(claims jwt.MapClaims) (int, error) {
	raw, ok := claims[claimUserID]
	if !ok {
		return 0, fmt.Errorf("missing %q claim", claimUserID)
	}

	var id int
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%q claim is not an integer: %f", claimUserID, v)
		}
		id = int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %q claim %q", claimUserID, v)
		}
		id = n
	default:
		return 0, fmt.Errorf("invalid type for %q claim: %T", claimUserID, raw)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %q claim value %d", claimUserID, id)
	}
	return id, nil
}

// Revoke invalidates the session's token. Tokens without an expiry stay
// revoked for a day.
func (p *Provider) Revoke(s *Session) {
	until := s.ExpiresAt
	if until.IsZero() {
		until = p.now().Add(24 * time.Hour)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	for key, exp := range p.revoked {
		if now.After(exp) {
			delete(p.revoked, key)
		}
	}
	p.revoked[s.key] = until
}

func (p *Provider) isRevoked(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	exp, ok := p.revoked[key]
	return ok && !p.now().After(exp)
}
