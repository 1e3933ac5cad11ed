package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jukebox-bot/internal/jukebox"
)

const (
	// Issuer is the iss claim the backend accepts for bot-minted tokens.
	Issuer = "jukebox-bot"

	// Subject labels who the token was minted for.
	Subject = "discord-bot"

	// userTokenTTL bounds per-command tokens. The token exists only for the
	// duration of one request's Authorization header, but the backend still
	// enforces the expiry.
	userTokenTTL = 7 * 24 * time.Hour

	// serviceTokenTTL is effectively non-expiring; the credential lives for
	// the whole process and is never handed to users.
	serviceTokenTTL = 10 * 365 * 24 * time.Hour
)

// ErrNoActiveRoom is returned when the user has no room assignment, so no
// user-scoped token can be minted.
var ErrNoActiveRoom = errors.New("auth: user has no active room")

// Claims is the claim set carried by every token this process signs. The
// service credential leaves UserID and RoomCode empty; user tokens always set
// both.
type Claims struct {
	UserID   string `json:"user_id,omitempty"`
	RoomCode string `json:"room_code,omitempty"`
	jwt.RegisteredClaims
}

// Minter produces signed credentials binding a calling user to their current
// room. It is the only holder of the signing secret and of the service
// credential.
type Minter struct {
	secret       []byte
	serviceToken string
	client       *jukebox.Client
}

// NewMinter signs the process-wide service credential and returns a minter
// that resolves room membership through the given client.
func NewMinter(secret string, client *jukebox.Client) (*Minter, error) {
	m := &Minter{secret: []byte(secret), client: client}

	serviceToken, err := m.sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   Subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(serviceTokenTTL)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("auth: sign service credential: %w", err)
	}
	m.serviceToken = serviceToken
	return m, nil
}

func (m *Minter) sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ServiceToken returns the privileged credential used for cross-user lookups
// and moderation. It must never appear in user-facing output.
func (m *Minter) ServiceToken() string {
	return m.serviceToken
}

// ResolveRoom looks up the room currently associated with the user. A user
// without a room yields ErrNoActiveRoom; backend failures surface as
// *jukebox.APIError.
func (m *Minter) ResolveRoom(ctx context.Context, userID string) (string, error) {
	user, err := m.client.GetUser(ctx, m.serviceToken, userID)
	if err != nil {
		return "", err
	}
	if user.AssociatedRoomCode == nil || *user.AssociatedRoomCode == "" {
		return "", ErrNoActiveRoom
	}
	return *user.AssociatedRoomCode, nil
}

// MintUserToken resolves the user's room and signs a short-lived token
// scoping them to it. Membership is resolved per command rather than cached,
// so users switching rooms between commands always get the right scope.
func (m *Minter) MintUserToken(ctx context.Context, userID string) (string, error) {
	roomCode, err := m.ResolveRoom(ctx, userID)
	if err != nil {
		return "", err
	}

	token, err := m.sign(Claims{
		UserID:   userID,
		RoomCode: roomCode,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   Subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(userTokenTTL)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("auth: sign user token: %w", err)
	}
	return token, nil
}
