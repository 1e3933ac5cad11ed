package bot

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jukebox-bot/internal/jukebox"
)

// defaultPlaylistURL is queued when play is invoked with no argument.
const defaultPlaylistURL = "https://music.youtube.com/playlist?list=PLxqk0Y1WNUGpZVR40HTLncFl22lJzNcau"

// intArg parses args[i] as an integer, or returns fallback when the argument
// is absent. A malformed value is a validation error, never a network call.
func intArg(args []string, i int, name string, fallback int) (int, error) {
	if i >= len(args) {
		return fallback, nil
	}
	value, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, validationErrorf("%s must be an integer!", name)
	}
	return value, nil
}

func (r *Router) help(ctx context.Context, inv *invocation) error {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var lines strings.Builder
	for _, name := range names {
		cmd := r.commands[name]
		suffix := ""
		if cmd.ownerOnly {
			suffix = " (owner only)"
		}
		fmt.Fprintf(&lines, "`%s%s`: %s%s\n", r.prefix, cmd.name, cmd.description, suffix)
	}

	inv.replyEmbed(&discordgo.MessageEmbed{
		Title:       "🎵 Jukebox Commands",
		Description: lines.String(),
		Color:       colorBlue,
	})
	return nil
}

func (r *Router) status(ctx context.Context, inv *invocation) error {
	token, err := inv.userToken(ctx)
	if err != nil {
		return err
	}
	room, err := r.client.GetRoom(ctx, token)
	if err != nil {
		return err
	}

	embed := statusEmbed(room)

	// The current-track field is best effort; a failed metadata fetch still
	// leaves a useful status embed.
	if id := room.RoomInfo.CurrentTrack.ID; id != nil && *id != "" {
		track, err := r.client.GetTrack(ctx, token, *id)
		if err != nil {
			r.log.Warn("current track fetch failed", "track_id", *id, "error", err)
		} else {
			addCurrentTrack(embed, track, r.client.ThumbnailURL(*id))
		}
	}

	inv.replyEmbed(embed)
	return nil
}

func (r *Router) pause(ctx context.Context, inv *invocation) error {
	token, err := inv.userToken(ctx)
	if err != nil {
		return err
	}
	if _, err := r.client.SetPaused(ctx, token, true); err != nil {
		return err
	}
	inv.replyText("⏸️ Paused playback!")
	return nil
}

func (r *Router) resume(ctx context.Context, inv *invocation) error {
	token, err := inv.userToken(ctx)
	if err != nil {
		return err
	}
	if _, err := r.client.SetPaused(ctx, token, false); err != nil {
		return err
	}
	inv.replyText("▶️ Resumed playback!")
	return nil
}

// loop reads the current flag and flips it. The read and the write are not
// transactional; a concurrent flip between them is lost (accepted gap).
func (r *Router) loop(ctx context.Context, inv *invocation) error {
	token, err := inv.userToken(ctx)
	if err != nil {
		return err
	}
	room, err := r.client.GetRoom(ctx, token)
	if err != nil {
		return err
	}

	newState := !room.RoomInfo.IsLooping
	if _, err := r.client.SetLooping(ctx, token, newState); err != nil {
		return err
	}

	if newState {
		inv.replyText("🔁 Enabled loop mode!")
	} else {
		inv.replyText("🔁 Disabled loop mode!")
	}
	return nil
}

func (r *Router) shuffle(ctx context.Context, inv *invocation) error {
	token, err := inv.userToken(ctx)
	if err != nil {
		return err
	}
	room, err := r.client.GetRoom(ctx, token)
	if err != nil {
		return err
	}

	newState := !room.RoomInfo.IsShuffled
	if _, err := r.client.SetShuffled(ctx, token, newState); err != nil {
		return err
	}

	if newState {
		inv.replyText("🔀 Enabled shuffle mode!")
	} else {
		inv.replyText("🔀 Disabled shuffle mode!")
	}
	return nil
}

func (r *Router) seek(ctx context.Context, inv *invocation) error {
	if len(inv.args) == 0 {
		return validationErrorf("Usage: %sseek <seconds>", r.prefix)
	}
	seconds, err := intArg(inv.args, 0, "Seek time", 0)
	if err != nil {
		return err
	}
	if seconds < 0 {
		return validationErrorf("Seek time must be non-negative!")
	}

	token, err := inv.userToken(ctx)
	if err != nil {
		return err
	}
	if _, err := r.client.Seek(ctx, token, seconds); err != nil {
		return err
	}

	inv.replyText(fmt.Sprintf("⏩ Seeked to %s!", formatSeconds(seconds)))
	return nil
}

func (r *Router) skip(ctx context.Context, inv *invocation) error {
	amount, err := intArg(inv.args, 0, "Amount", 1)
	if err != nil {
		return err
	}
	if amount == 0 {
		return validationErrorf("Amount cannot be 0! Use a positive number to skip forward or negative to skip backward.")
	}

	token, err := inv.userToken(ctx)
	if err != nil {
		return err
	}
	room, err := r.client.GetRoom(ctx, token)
	if err != nil {
		return err
	}

	current := room.RoomInfo.CurrentTrack.Index
	if current == nil {
		return validationErrorf("Could not find the current track in the queue!")
	}
	target, err := skipTarget(*current, amount)
	if err != nil {
		return err
	}

	if _, err := r.client.Skip(ctx, token, target); err != nil {
		return err
	}

	direction := "forward"
	if amount < 0 {
		direction = "backward"
	}
	inv.replyText(fmt.Sprintf("⏭️ Skipped %s by %d track(s) to index %d!", direction, abs(amount), target))
	return nil
}

func (r *Router) move(ctx context.Context, inv *invocation) error {
	if len(inv.args) < 2 {
		return validationErrorf("Usage: %smove <from> <to>", r.prefix)
	}
	from, err := intArg(inv.args, 0, "From index", 0)
	if err != nil {
		return err
	}
	to, err := intArg(inv.args, 1, "To index", 0)
	if err != nil {
		return err
	}
	if from < 0 || to < 0 {
		return validationErrorf("Indices must be non-negative!")
	}

	token, err := inv.userToken(ctx)
	if err != nil {
		return err
	}
	if _, err := r.client.Move(ctx, token, from, to); err != nil {
		return err
	}

	inv.replyText(fmt.Sprintf("🔄 Moved track from #%d to #%d!", from, to))
	return nil
}

func (r *Router) play(ctx context.Context, inv *invocation) error {
	urlOrQuery := joinArgs(inv.args)
	if urlOrQuery == "" {
		urlOrQuery = defaultPlaylistURL
	}

	token, err := inv.userToken(ctx)
	if err != nil {
		return err
	}
	if _, err := r.client.Add(ctx, token, urlOrQuery); err != nil {
		return err
	}

	inv.replyText("✅ Added to queue: " + truncate(urlOrQuery, 50))
	return nil
}

func (r *Router) remove(ctx context.Context, inv *invocation) error {
	if len(inv.args) == 0 {
		return validationErrorf("Usage: %sremove <id>", r.prefix)
	}
	itemID, err := intArg(inv.args, 0, "Track ID", 0)
	if err != nil {
		return err
	}
	if itemID < 0 {
		return validationErrorf("Track ID must be non-negative!")
	}

	token, err := inv.userToken(ctx)
	if err != nil {
		return err
	}
	if _, err := r.client.Remove(ctx, token, itemID); err != nil {
		return err
	}

	inv.replyText(fmt.Sprintf("🗑️ Removed track with ID %d!", itemID))
	return nil
}

func (r *Router) delete(ctx context.Context, inv *invocation) error {
	if len(inv.args) == 0 {
		return validationErrorf("Usage: %sdelete <index>", r.prefix)
	}
	index, err := intArg(inv.args, 0, "Index", 0)
	if err != nil {
		return err
	}
	if index < 0 {
		return validationErrorf("Index must be non-negative!")
	}

	token, err := inv.userToken(ctx)
	if err != nil {
		return err
	}
	if _, err := r.client.Delete(ctx, token, index); err != nil {
		return err
	}

	inv.replyText(fmt.Sprintf("🗑️ Deleted track at index %d!", index))
	return nil
}

func (r *Router) queue(ctx context.Context, inv *invocation) error {
	page, err := intArg(inv.args, 0, "Page", 1)
	if err != nil {
		return err
	}

	token, err := inv.userToken(ctx)
	if err != nil {
		return err
	}
	room, err := r.client.GetRoom(ctx, token)
	if err != nil {
		return err
	}

	if len(room.QueueItems) == 0 {
		inv.replyText("📭 Queue is empty!")
		return nil
	}

	embed, err := queueEmbed(room, page, r.prefix)
	if err != nil {
		return err
	}
	inv.replyEmbed(embed)
	return nil
}

func (r *Router) track(ctx context.Context, inv *invocation) error {
	offset, err := intArg(inv.args, 0, "Offset", 0)
	if err != nil {
		return err
	}

	token, err := inv.userToken(ctx)
	if err != nil {
		return err
	}
	room, err := r.client.GetRoom(ctx, token)
	if err != nil {
		return err
	}

	item, err := itemAtOffset(room, offset)
	if err != nil {
		return err
	}

	track, err := r.client.GetTrack(ctx, token, item.TrackID)
	if err != nil {
		return err
	}

	inv.replyEmbed(trackEmbed(track, r.client.ThumbnailURL(item.TrackID)))
	return nil
}

func (r *Router) clear(ctx context.Context, inv *invocation) error {
	token, err := inv.userToken(ctx)
	if err != nil {
		return err
	}
	if _, err := r.client.Clear(ctx, token); err != nil {
		return err
	}
	inv.replyText("🧹 Cleared the queue!")
	return nil
}

// skipTarget computes the absolute index a relative skip lands on. Landing
// below zero is rejected before the skip request is issued.
func skipTarget(currentIndex, amount int) (int, error) {
	target := currentIndex + amount
	if target < 0 {
		return 0, validationErrorf("Cannot skip to a negative index!")
	}
	return target, nil
}

// itemAtOffset resolves the queue item at the given offset from the current
// track, following shuffled order while shuffle is active.
func itemAtOffset(room *jukebox.Room, offset int) (*jukebox.QueueItem, error) {
	current := room.RoomInfo.CurrentTrack.Index
	if current == nil {
		return nil, validationErrorf("Could not find the current track in the queue!")
	}

	target := *current + offset
	if target < 0 || target >= len(room.QueueItems) {
		return nil, validationErrorf("Track index %d is out of range!", target)
	}

	shuffled := room.RoomInfo.IsShuffled
	for i := range room.QueueItems {
		item := &room.QueueItems[i]
		if shuffled {
			if item.ShuffledIndex != nil && *item.ShuffledIndex == target {
				return item, nil
			}
		} else if item.Index == target {
			return item, nil
		}
	}
	return nil, validationErrorf("No track found at the requested index!")
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
