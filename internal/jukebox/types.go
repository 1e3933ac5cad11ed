package jukebox

// Wire types for the jukebox backend, pinned to the camelCase revision of the
// API. All of this state is owned by the backend; the bot only reads
// snapshots and issues mutation requests.

// CurrentTrack references the item the room is currently playing. Both
// fields are null when the queue is empty.
type CurrentTrack struct {
	ID    *string `json:"id"`
	Index *int    `json:"index"`
}

type RoomInfo struct {
	RoomCode     string       `json:"roomCode"`
	IsPaused     bool         `json:"isPaused"`
	IsLooping    bool         `json:"isLooping"`
	IsShuffled   bool         `json:"isShuffled"`
	CurrentTrack CurrentTrack `json:"currentTrack"`
	PlayingSince *int64       `json:"playingSince"`
}

// QueueItem is one entry in a room's play order. Index is a dense 0-based
// sequence over non-deleted items; ShuffledIndex is a permutation of the same
// range, present only while shuffle is active.
type QueueItem struct {
	ID            int    `json:"id"`
	TrackID       string `json:"trackId"`
	Index         int    `json:"index"`
	ShuffledIndex *int   `json:"shuffledIndex"`
	IsDeleted     bool   `json:"isDeleted"`
}

// Room is the snapshot returned by the room endpoint and by every mutation.
type Room struct {
	RoomInfo   RoomInfo    `json:"roomInfo"`
	QueueItems []QueueItem `json:"queueItems"`
}

type Track struct {
	TrackID    string `json:"trackId"`
	WebpageURL string `json:"webpageUrl"`
	Title      string `json:"title"`
	Uploader   string `json:"uploader"`
}

type User struct {
	UserID             int64   `json:"userId"`
	Username           string  `json:"username"`
	AssociatedRoomCode *string `json:"associatedRoomCode"`
	BannedUntil        *int64  `json:"bannedUntil"`
	BannedReason       *string `json:"bannedReason"`
}

// Mutation bodies. Every mutating call carries a sentAt millisecond
// timestamp so the backend can reason about request staleness independent of
// network delivery order.
type boolRequest struct {
	SentAt int64 `json:"sentAt"`
	Value  bool  `json:"value"`
}

type intRequest struct {
	SentAt int64 `json:"sentAt"`
	Value  int   `json:"value"`
}

type stringRequest struct {
	SentAt int64  `json:"sentAt"`
	Value  string `json:"value"`
}

type moveRequest struct {
	SentAt int64 `json:"sentAt"`
	From   int   `json:"from"`
	To     int   `json:"to"`
}

type clearRequest struct {
	SentAt int64 `json:"sentAt"`
}

type banRequest struct {
	Until  int64  `json:"until"`
	Reason string `json:"reason"`
}
