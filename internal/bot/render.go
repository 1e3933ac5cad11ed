package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jukebox-bot/internal/jukebox"
)

const (
	colorBlue   = 0x3498db
	colorGreen  = 0x2ecc71
	colorPurple = 0x9b59b6
	colorRed    = 0xe74c3c

	// pageSize is how many queue items one page of the queue embed shows.
	pageSize = 10
)

// roomTitle renders the room identity. Real room codes are six characters;
// anything else means the room runs embedded in an activity.
func roomTitle(code string) string {
	if len(code) == 6 {
		return code
	}
	return "Embedded"
}

func statusEmbed(room *jukebox.Room) *discordgo.MessageEmbed {
	info := room.RoomInfo

	status := "▶️ Playing"
	if info.IsPaused {
		status = "⏸️ Paused"
	}
	loop := "🔁 Loop: Off"
	if info.IsLooping {
		loop = "🔁 Loop: On"
	}
	shuffle := "🔀 Shuffle: Off"
	if info.IsShuffled {
		shuffle = "🔀 Shuffle: On"
	}

	return &discordgo.MessageEmbed{
		Title: "🎵 Room: " + roomTitle(info.RoomCode),
		Color: colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "Status",
				Value: fmt.Sprintf("Total tracks: %d\n%s\n%s\n%s",
					len(room.QueueItems), status, loop, shuffle),
				Inline: true,
			},
		},
	}
}

// addCurrentTrack appends the now-playing field and art to a status embed.
func addCurrentTrack(embed *discordgo.MessageEmbed, track *jukebox.Track, thumbnailURL string) {
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "Current Track",
		Value:  track.Title + "\n" + track.Uploader,
		Inline: true,
	})
	embed.Image = &discordgo.MessageEmbedImage{URL: thumbnailURL}
}

// paginate returns the half-open item range for a 1-based page, or a
// validation error naming the valid page range.
func paginate(totalItems, page int) (start, end, totalPages int, err error) {
	totalPages = (totalItems + pageSize - 1) / pageSize
	if page < 1 || page > totalPages {
		return 0, 0, 0, validationErrorf("Page must be between 1 and %d!", totalPages)
	}

	start = (page - 1) * pageSize
	end = start + pageSize
	if end > totalItems {
		end = totalItems
	}
	return start, end, totalPages, nil
}

// displayIndex picks the position a queue item occupies in play order,
// following shuffled order while shuffle is active.
func displayIndex(item *jukebox.QueueItem, shuffled bool) int {
	if shuffled && item.ShuffledIndex != nil {
		return *item.ShuffledIndex
	}
	return item.Index
}

func queueEmbed(room *jukebox.Room, page int, prefix string) (*discordgo.MessageEmbed, error) {
	items := room.QueueItems
	start, end, totalPages, err := paginate(len(items), page)
	if err != nil {
		return nil, err
	}

	currentIndex := -1
	if room.RoomInfo.CurrentTrack.Index != nil {
		currentIndex = *room.RoomInfo.CurrentTrack.Index
	}

	var lines strings.Builder
	for i := start; i < end; i++ {
		item := &items[i]
		index := displayIndex(item, room.RoomInfo.IsShuffled)
		marker := "🎵"
		if index == currentIndex {
			marker = "▶️"
		}
		fmt.Fprintf(&lines, "%s **#%d** - ID: %s\n", marker, index, truncate(item.TrackID, 18))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎵 Queue - Page %d/%d", page, totalPages),
		Description: fmt.Sprintf("Total tracks: %d", len(items)),
		Color:       colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Tracks", Value: lines.String()},
		},
	}
	if totalPages > 1 {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Use %squeue <page> to see other pages", prefix),
		}
	}
	return embed, nil
}

func trackEmbed(track *jukebox.Track, thumbnailURL string) *discordgo.MessageEmbed {
	uploader := track.Uploader
	if uploader == "" {
		uploader = "Unknown Uploader"
	}
	return &discordgo.MessageEmbed{
		Title:  track.Title,
		URL:    track.WebpageURL,
		Color:  colorPurple,
		Footer: &discordgo.MessageEmbedFooter{Text: uploader},
		Image:  &discordgo.MessageEmbedImage{URL: thumbnailURL},
	}
}

func userEmbed(user *jukebox.User) *discordgo.MessageEmbed {
	room := "none"
	if user.AssociatedRoomCode != nil && *user.AssociatedRoomCode != "" {
		room = roomTitle(*user.AssociatedRoomCode)
	}

	banned := "No"
	if user.BannedUntil != nil && *user.BannedUntil > time.Now().UnixMilli() {
		until := time.UnixMilli(*user.BannedUntil).UTC().Format(time.RFC1123)
		banned = "Until " + until
		if user.BannedReason != nil && *user.BannedReason != "" {
			banned += " (" + *user.BannedReason + ")"
		}
	}

	return &discordgo.MessageEmbed{
		Title: "👤 " + user.Username,
		Color: colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User ID", Value: fmt.Sprintf("%d", user.UserID), Inline: true},
			{Name: "Room", Value: room, Inline: true},
			{Name: "Banned", Value: banned, Inline: true},
		},
	}
}

// apiErrorEmbed renders a structured backend error: title and detail shown
// distinctly, unlike the generic unexpected path.
func apiErrorEmbed(err *jukebox.APIError) *discordgo.MessageEmbed {
	detail := err.Detail
	if detail == "" {
		detail = "An error occurred."
	}
	return &discordgo.MessageEmbed{
		Title:       "❌ " + err.Title,
		Description: detail,
		Color:       colorRed,
	}
}

func unexpectedErrorEmbed(err error) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ Unexpected Error",
		Description: err.Error(),
		Color:       colorRed,
	}
}

// formatSeconds renders a track position as M:SS.
func formatSeconds(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
