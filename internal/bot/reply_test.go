package bot

import (
	"io"
	"log/slog"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSafeReplyPrefersReference(t *testing.T) {
	sender := &fakeSender{}
	m := testMessage("123")

	safeReply(sender, m, &discordgo.MessageSend{Content: "hi"}, discardLog())

	require.Equal(t, 1, sender.sent())
	ref := sender.calls[0].reference
	require.NotNil(t, ref)
	assert.Equal(t, "msg-1", ref.MessageID)
	assert.Equal(t, "chan-1", ref.ChannelID)
}

func TestSafeReplyFallsBackToChannel(t *testing.T) {
	// First delivery fails as if the triggering message was deleted; the
	// message must still appear, sent without a reference.
	sender := &fakeSender{failures: 1}
	m := testMessage("123")

	safeReply(sender, m, &discordgo.MessageSend{Content: "hi"}, discardLog())

	require.Equal(t, 2, sender.sent())
	assert.NotNil(t, sender.calls[0].reference)
	assert.Nil(t, sender.calls[1].reference)
	assert.Equal(t, "hi", sender.calls[1].content)
}

func TestSafeReplySwallowsTotalFailure(t *testing.T) {
	sender := &fakeSender{failures: 2}
	m := testMessage("123")

	assert.NotPanics(t, func() {
		safeReply(sender, m, &discordgo.MessageSend{Content: "hi"}, discardLog())
	})
	assert.Equal(t, 2, sender.sent())
}
