package jwt

import (
	"errors"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jonboulle/clockwork"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	ClaimEmployeeID = "employee_id"
	ClaimType       = "type"

	TokenTypeAccess = "access"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Service interface {
	GenerateAccessToken(employeeID string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
	// PruneRevokedTokens forgets revoked tokens that have expired anyway and
	// reports how many were dropped.
	PruneRevokedTokens() int
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	clock                 clockwork.Clock
	// revokedTokens maps a revoked token to its expiry so it can be pruned.
	revokedTokens map[string]int64
	mu            sync.RWMutex
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, clock clockwork.Clock) (Service, error) {
	expiration, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &JWTService{
		accessTokenExpiration: expiration,
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil,
			jwt.WithAcceptableSkew(30*time.Second), jwt.WithClock(jwt.ClockFunc(clock.Now))),
		clock:         clock,
		revokedTokens: make(map[string]int64),
	}, nil
}

func (j *JWTService) GenerateAccessToken(employeeID string) (token string, expiresAt int64, err error) {
	now := j.clock.Now()
	expiresAt = now.Add(j.accessTokenExpiration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		ClaimEmployeeID: employeeID,
		ClaimType:       TokenTypeAccess,
		"iat":           now.Unix(),
		"exp":           expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) RevokeToken(token string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	exp := j.clock.Now().Unix() + int64(j.accessTokenExpiration/time.Second)
	if parsed, err := j.tokenAuth.Decode(token); err == nil && !parsed.Expiration().IsZero() {
		exp = parsed.Expiration().Unix()
	}
	j.revokedTokens[token] = exp
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

func (j *JWTService) PruneRevokedTokens() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.clock.Now().Unix()
	pruned := 0
	for t, exp := range j.revokedTokens {
		if exp < now {
			delete(j.revokedTokens, t)
			pruned++
		}
	}
	return pruned
}

// EmployeeID extracts the employee claim from a verified access token.
func EmployeeID(claims map[string]interface{}) (string, error) {
	if tokenType, ok := claims[ClaimType].(string); !ok || tokenType != TokenTypeAccess {
		return "", ErrInvalidToken
	}
	employeeID, ok := claims[ClaimEmployeeID].(string)
	if !ok || employeeID == "" {
		return "", ErrInvalidToken
	}
	return employeeID, nil
}
