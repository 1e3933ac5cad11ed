package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jukebox-bot/internal/jukebox"
)

const testSecret = "test-secret"

func newTestMinter(t *testing.T, handler http.HandlerFunc) *Minter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := jukebox.NewClient(server.URL, server.URL, 5*time.Second)
	minter, err := NewMinter(testSecret, client)
	require.NoError(t, err)
	return minter
}

func parseClaims(t *testing.T, token string, opts ...jwt.ParserOption) (*Claims, error) {
	t.Helper()
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, opts...)
	return claims, err
}

func userLookup(roomCode string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := `{"userId":123,"username":"tester","associatedRoomCode":null}`
		if roomCode != "" {
			body = `{"userId":123,"username":"tester","associatedRoomCode":"` + roomCode + `"}`
		}
		w.Write([]byte(body))
	}
}

func TestMintUserTokenRoundTrip(t *testing.T) {
	var lookupAuth string
	minter := newTestMinter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/123", r.URL.Path)
		lookupAuth = r.Header.Get("Authorization")
		userLookup("ABCDEF")(w, r)
	})

	token, err := minter.MintUserToken(context.Background(), "123")
	require.NoError(t, err)

	claims, err := parseClaims(t, token)
	require.NoError(t, err)
	assert.Equal(t, "123", claims.UserID)
	assert.Equal(t, "ABCDEF", claims.RoomCode)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.Equal(t, Subject, claims.Subject)

	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)

	// Room resolution must use the service credential, not a user token.
	assert.Equal(t, "Bearer "+minter.ServiceToken(), lookupAuth)
}

func TestUserTokenRejectedAfterExpiry(t *testing.T) {
	minter := newTestMinter(t, userLookup("ABCDEF"))

	token, err := minter.MintUserToken(context.Background(), "123")
	require.NoError(t, err)

	_, err = parseClaims(t, token, jwt.WithTimeFunc(func() time.Time {
		return time.Now().Add(8 * 24 * time.Hour)
	}))
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestUserTokenRejectsWrongSecret(t *testing.T) {
	minter := newTestMinter(t, userLookup("ABCDEF"))

	token, err := minter.MintUserToken(context.Background(), "123")
	require.NoError(t, err)

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}

func TestServiceTokenHasNoUserScope(t *testing.T) {
	minter := newTestMinter(t, userLookup("ABCDEF"))

	claims, err := parseClaims(t, minter.ServiceToken())
	require.NoError(t, err)
	assert.Empty(t, claims.UserID)
	assert.Empty(t, claims.RoomCode)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestResolveRoomWithoutAssignment(t *testing.T) {
	minter := newTestMinter(t, userLookup(""))

	_, err := minter.MintUserToken(context.Background(), "123")
	assert.ErrorIs(t, err, ErrNoActiveRoom)
}

func TestResolveRoomLookupFailure(t *testing.T) {
	minter := newTestMinter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"title":"NotFound","detail":"unknown user"}`))
	})

	_, err := minter.MintUserToken(context.Background(), "123")
	require.Error(t, err)

	apiErr, ok := err.(*jukebox.APIError)
	require.True(t, ok, "expected *jukebox.APIError, got %T", err)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "NotFound", apiErr.Title)
}
