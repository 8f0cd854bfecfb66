package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// ErrInvalidTicket is returned for tickets that fail signature, expiry or claim checks.
var ErrInvalidTicket = errors.New("invalid decision ticket")

// DefaultTicketTTL bounds how long a ticket stays valid.
const DefaultTicketTTL = time.Hour

// TicketClaims is what a verified ticket vouches for.
type TicketClaims struct {
	DecisionID string
	PlayerID   string
	Kind       DecisionKind
}

// TicketIssuer signs pending decisions so a remote client can answer them
// without being trusted to name the decision or the player.
type TicketIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTicketIssuer returns an issuer signing with secret (HS256).
func NewTicketIssuer(secret, issuer string, ttl time.Duration) (*TicketIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("ticket secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTicketTTL
	}
	return &TicketIssuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// Issue signs a ticket for d.
func (t *TicketIssuer) Issue(d PendingDecision) (string, error) {
	if t == nil {
		return "", fmt.Errorf("ticket issuer is nil")
	}
	if d.ID == "" || d.PlayerID == "" {
		return "", fmt.Errorf("decision id and player are required")
	}
	claims := jwt.MapClaims{
		"iss":  t.issuer,
		"sub":  d.PlayerID,
		"did":  d.ID,
		"kind": string(d.Kind),
		"iat":  t.now().Unix(),
		"exp":  t.now().Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks a ticket and returns its claims.
func (t *TicketIssuer) Verify(ticket string) (TicketClaims, error) {
	token, err := jwt.Parse(ticket, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return TicketClaims{}, fmt.Errorf("%w: %v", ErrInvalidTicket, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return TicketClaims{}, ErrInvalidTicket
	}
	if !claims.VerifyIssuer(t.issuer, true) {
		return TicketClaims{}, fmt.Errorf("%w: issuer mismatch", ErrInvalidTicket)
	}
	did, _ := claims["did"].(string)
	sub, _ := claims["sub"].(string)
	kind, _ := claims["kind"].(string)
	if did == "" || sub == "" {
		return TicketClaims{}, fmt.Errorf("%w: missing claims", ErrInvalidTicket)
	}
	return TicketClaims{DecisionID: did, PlayerID: sub, Kind: DecisionKind(kind)}, nil
}
