package auth // package auth implements token issuance/validation and role requirements

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// Sentinel errors returned by Validate. Handlers collapse all of them into a
// single 401 so callers cannot probe which check failed; the distinction
// exists for logging and tests.
var (
    ErrSigning        = errors.New("token signing unavailable")
    ErrExpiredToken   = errors.New("token expired")
    ErrBadSignature   = errors.New("token signature invalid")
    ErrMalformedToken = errors.New("token malformed")
)

// Issuer is the iss claim stamped into every token this service signs.
const Issuer = "advicehub"

// Claims is the payload carried inside an access token: the subject user ID,
// the role set captured at issuance time, and the standard registered
// timestamps. Roles are a snapshot — changing a user's roles does not touch
// tokens already in the wild, only the next issuance.
type Claims struct {
    Roles []string `json:"roles"`
    jwt.RegisteredClaims
}

// TokenService issues and validates HS256 access tokens. The signing key and
// TTL are fixed at construction; the service holds no other state and its
// methods are safe for concurrent use. now is injectable so tests can pin the
// clock.
type TokenService struct {
    secret []byte
    ttl    time.Duration
    now    func() time.Time
}

// NewTokenService builds a TokenService from the shared signing secret and an
// access-token TTL in minutes.
func NewTokenService(secret string, ttlMin int) *TokenService {
    return &TokenService{
        secret: []byte(secret),
        ttl:    time.Duration(ttlMin) * time.Minute,
        now:    func() time.Time { return time.Now().UTC() },
    }
}

// Issue signs a token for the given user carrying the given role set. It
// returns the compact JWS string and its expiry. Issue fails with ErrSigning
// when no key is configured.
func (s *TokenService) Issue(userID uint64, roles []string) (string, time.Time, error) {
    if len(s.secret) == 0 {
        return "", time.Time{}, ErrSigning
    }
    now := s.now()
    exp := now.Add(s.ttl)
    claims := Claims{
        Roles: roles,
        RegisteredClaims: jwt.RegisteredClaims{
            Issuer:    Issuer,
            Subject:   strconvID(userID),
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString(s.secret)
    if err != nil {
        return "", time.Time{}, ErrSigning
    }
    return signed, exp, nil
}

// Validate parses and verifies a compact token string. On success it returns
// the subject user ID and the role set from the claims. Failures map onto the
// package sentinels: ErrExpiredToken when past exp, ErrBadSignature when the
// MAC does not verify or a non-HMAC alg was used, ErrMalformedToken when the
// structure cannot be parsed at all.
func (s *TokenService) Validate(raw string) (uint64, []string, error) {
    var claims Claims
    tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrBadSignature
        }
        return s.secret, nil
    }, jwt.WithTimeFunc(func() time.Time { return s.now() }))
    if err != nil {
        switch {
        case errors.Is(err, jwt.ErrTokenExpired):
            return 0, nil, ErrExpiredToken
        case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrBadSignature):
            return 0, nil, ErrBadSignature
        default:
            return 0, nil, ErrMalformedToken
        }
    }
    if !tok.Valid {
        return 0, nil, ErrBadSignature
    }
    uid, err := parseID(claims.Subject)
    if err != nil {
        return 0, nil, ErrMalformedToken
    }
    return uid, claims.Roles, nil
}
