package jukebox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client issues authenticated HTTP calls against the jukebox backend. It is
// stateless and safe for concurrent use; all room and queue state lives on
// the backend.
type Client struct {
	baseURL    string
	publicURL  string
	httpClient *http.Client
}

// NewClient builds a client for the backend at baseURL. publicURL is the
// externally reachable address used for thumbnail links embedded in chat
// messages. Every request is bounded by timeout; nothing is retried.
func NewClient(baseURL, publicURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		publicURL:  strings.TrimRight(publicURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// sentAt stamps mutation bodies with milliseconds since epoch, captured at
// call time. The backend uses it to order concurrent writes.
func sentAt() int64 {
	return time.Now().UnixMilli()
}

// do issues one request and decodes the response into out (when non-nil).
// Non-2xx statuses become an *APIError; transport and decode failures are
// returned as-is.
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("jukebox: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("jukebox: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("jukebox: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("jukebox: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("jukebox: decode response: %w", err)
	}
	return nil
}

// GetUser is a privileged lookup; token must be the service credential.
func (c *Client) GetUser(ctx context.Context, token, userID string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/user/"+url.PathEscape(userID), token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetRoom returns the snapshot of the room the token is scoped to.
func (c *Client) GetRoom(ctx context.Context, token string) (*Room, error) {
	var room Room
	if err := c.do(ctx, http.MethodGet, "/api/room", token, nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) roomMutation(ctx context.Context, token, path string, body interface{}) (*Room, error) {
	var room Room
	if err := c.do(ctx, http.MethodPost, path, token, body, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// SetPaused sets the paused flag. There is no atomic toggle on this surface;
// resume is SetPaused(false).
func (c *Client) SetPaused(ctx context.Context, token string, value bool) (*Room, error) {
	return c.roomMutation(ctx, token, "/api/room/pause", boolRequest{SentAt: sentAt(), Value: value})
}

func (c *Client) SetLooping(ctx context.Context, token string, value bool) (*Room, error) {
	return c.roomMutation(ctx, token, "/api/room/loop", boolRequest{SentAt: sentAt(), Value: value})
}

func (c *Client) SetShuffled(ctx context.Context, token string, value bool) (*Room, error) {
	return c.roomMutation(ctx, token, "/api/room/shuffle", boolRequest{SentAt: sentAt(), Value: value})
}

// Seek jumps to a position in the current track, in seconds.
func (c *Client) Seek(ctx context.Context, token string, seconds int) (*Room, error) {
	return c.roomMutation(ctx, token, "/api/room/seek", intRequest{SentAt: sentAt(), Value: seconds})
}

// Skip jumps playback to an absolute queue index.
func (c *Client) Skip(ctx context.Context, token string, targetIndex int) (*Room, error) {
	return c.roomMutation(ctx, token, "/api/room/skip", intRequest{SentAt: sentAt(), Value: targetIndex})
}

func (c *Client) Move(ctx context.Context, token string, from, to int) (*Room, error) {
	return c.roomMutation(ctx, token, "/api/room/move", moveRequest{SentAt: sentAt(), From: from, To: to})
}

// Add enqueues a track by URL or search query. The backend resolves the
// query, so this is the slowest call the bot makes.
func (c *Client) Add(ctx context.Context, token, urlOrQuery string) (*Room, error) {
	return c.roomMutation(ctx, token, "/api/room/add", stringRequest{SentAt: sentAt(), Value: urlOrQuery})
}

// Remove drops a queue item by its numeric id.
func (c *Client) Remove(ctx context.Context, token string, itemID int) (*Room, error) {
	return c.roomMutation(ctx, token, "/api/room/remove", intRequest{SentAt: sentAt(), Value: itemID})
}

// Delete drops a queue item by its natural-order index.
func (c *Client) Delete(ctx context.Context, token string, index int) (*Room, error) {
	return c.roomMutation(ctx, token, "/api/room/delete", intRequest{SentAt: sentAt(), Value: index})
}

func (c *Client) Clear(ctx context.Context, token string) (*Room, error) {
	return c.roomMutation(ctx, token, "/api/room/clear", clearRequest{SentAt: sentAt()})
}

func (c *Client) GetTrack(ctx context.Context, token, trackID string) (*Track, error) {
	var track Track
	if err := c.do(ctx, http.MethodGet, "/api/track/"+url.PathEscape(trackID), token, nil, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// ThumbnailURL returns the public track-art address. The bot never fetches
// it; Discord does, so it must be built from the public base URL.
func (c *Client) ThumbnailURL(trackID string) string {
	return fmt.Sprintf("%s/api/track/%s/thumbnail-high", c.publicURL, url.PathEscape(trackID))
}

// BanUser bans until the given epoch-millisecond timestamp. Privileged.
func (c *Client) BanUser(ctx context.Context, token, userID string, until int64, reason string) error {
	path := "/api/user/" + url.PathEscape(userID) + "/ban"
	return c.do(ctx, http.MethodPost, path, token, banRequest{Until: until, Reason: reason}, nil)
}

// UnbanUser lifts a ban. Privileged.
func (c *Client) UnbanUser(ctx context.Context, token, userID string) error {
	path := "/api/user/" + url.PathEscape(userID) + "/unban"
	return c.do(ctx, http.MethodPost, path, token, nil, nil)
}
