package bot

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// safeReply delivers one outbound message. It prefers replying in-thread to
// the triggering message; if that target is gone (deleted) or the reply
// fails for any other reason, it falls back to a standalone message in the
// same channel. Delivery failures never propagate past this function.
func safeReply(s sender, m *discordgo.MessageCreate, send *discordgo.MessageSend, log *slog.Logger) {
	send.Reference = m.Reference()
	send.AllowedMentions = &discordgo.MessageAllowedMentions{}

	if _, err := s.ChannelMessageSendComplex(m.ChannelID, send); err == nil {
		return
	}

	send.Reference = nil
	if _, err := s.ChannelMessageSendComplex(m.ChannelID, send); err != nil {
		log.Warn("reply delivery failed", "channel_id", m.ChannelID, "error", err)
	}
}
