package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/jukebox-bot/internal/auth"
	"github.com/jukebox-bot/internal/jukebox"
	"github.com/jukebox-bot/pkg/events"
)

// ValidationError is a local argument failure. It is raised before any
// network call and rendered as a plain user-facing message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// sender is the slice of the Discord session the router needs for output.
type sender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type command struct {
	name        string
	description string
	ownerOnly   bool
	run         func(ctx context.Context, inv *invocation) error
}

// invocation carries everything one command execution needs. Invocations
// share no mutable state; concurrent commands only meet at the backend.
type invocation struct {
	router        *Router
	session       sender
	message       *discordgo.MessageCreate
	args          []string
	correlationID string
}

// Router maps incoming text commands to backend operations. It validates
// arguments before issuing any request and forwards results to the renderer.
type Router struct {
	prefix   string
	ownerID  string
	client   *jukebox.Client
	minter   *auth.Minter
	audit    *events.Publisher
	log      *slog.Logger
	commands map[string]*command
}

// New builds a router over the given client and minter. audit may be nil.
func New(client *jukebox.Client, minter *auth.Minter, ownerID string, audit *events.Publisher, log *slog.Logger) *Router {
	r := &Router{
		prefix:   "!",
		ownerID:  ownerID,
		client:   client,
		minter:   minter,
		audit:    audit,
		log:      log,
		commands: make(map[string]*command),
	}

	for _, cmd := range []*command{
		{name: "help", description: "List available commands", run: r.help},
		{name: "status", description: "Get current room status and queue", run: r.status},
		{name: "pause", description: "Pause playback", run: r.pause},
		{name: "resume", description: "Resume playback", run: r.resume},
		{name: "loop", description: "Toggle loop mode", run: r.loop},
		{name: "shuffle", description: "Toggle shuffle mode", run: r.shuffle},
		{name: "seek", description: "Seek to a specific time in the current track", run: r.seek},
		{name: "skip", description: "Skip forward by amount of tracks (default 1)", run: r.skip},
		{name: "move", description: "Move a track from one position to another", run: r.move},
		{name: "play", description: "Add a track to the queue", run: r.play},
		{name: "remove", description: "Remove a track from the queue by ID", run: r.remove},
		{name: "delete", description: "Delete a track from the queue by index", run: r.delete},
		{name: "queue", description: "Show the current queue", run: r.queue},
		{name: "track", description: "Show info about a track at an offset from the current track", run: r.track},
		{name: "clear", description: "Clear the queue", run: r.clear},
		{name: "userinfo", description: "Show jukebox info about a user", ownerOnly: true, run: r.userinfo},
		{name: "ban", description: "Ban a user from the jukebox", ownerOnly: true, run: r.ban},
		{name: "unban", description: "Unban a user", ownerOnly: true, run: r.unban},
	} {
		r.commands[cmd.name] = cmd
	}

	return r
}

// HandleMessageCreate is registered on the Discord session. Non-command
// messages and unknown commands are ignored silently.
func (r *Router) HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, r.prefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(m.Content, r.prefix))
	if len(fields) == 0 {
		return
	}

	r.Dispatch(s, m, fields[0], fields[1:])
}

// Dispatch runs one command invocation and renders its outcome. It never
// panics past the handler and never returns delivery errors.
func (r *Router) Dispatch(s sender, m *discordgo.MessageCreate, name string, args []string) {
	cmd, ok := r.commands[name]
	if !ok {
		return
	}

	inv := &invocation{
		router:        r,
		session:       s,
		message:       m,
		args:          args,
		correlationID: uuid.New().String(),
	}

	log := r.log.With(
		"command", name,
		"user_id", m.Author.ID,
		"correlation_id", inv.correlationID,
	)

	if cmd.ownerOnly && (r.ownerID == "" || m.Author.ID != r.ownerID) {
		log.Warn("owner-only command denied")
		inv.replyText("❌ You are not allowed to use this command!")
		r.publishAudit(inv, name, events.OutcomeDenied)
		return
	}

	ctx := context.Background()
	err := cmd.run(ctx, inv)

	outcome := events.OutcomeOK
	var validationErr *ValidationError
	var apiErr *jukebox.APIError
	switch {
	case err == nil:
	case errors.As(err, &validationErr):
		outcome = events.OutcomeRejected
		inv.replyText("❌ " + validationErr.Message)
	case errors.Is(err, auth.ErrNoActiveRoom):
		outcome = events.OutcomeRejected
		inv.replyText("❌ You are not in a jukebox room right now!")
	case errors.As(err, &apiErr):
		outcome = events.OutcomeAPIError
		log.Warn("backend rejected command", "status", apiErr.StatusCode, "title", apiErr.Title)
		inv.replyEmbed(apiErrorEmbed(apiErr))
	default:
		outcome = events.OutcomeFailed
		log.Error("command failed", "error", err)
		inv.replyEmbed(unexpectedErrorEmbed(err))
	}

	r.publishAudit(inv, name, outcome)
}

func (r *Router) publishAudit(inv *invocation, name string, outcome events.Outcome) {
	if r.audit == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := r.audit.PublishCommand(ctx, events.CommandEvent{
		CorrelationID: inv.correlationID,
		Command:       name,
		UserID:        inv.message.Author.ID,
		GuildID:       inv.message.GuildID,
		Outcome:       outcome,
		Timestamp:     time.Now().UTC(),
	})
	if err != nil {
		r.log.Warn("audit publish failed", "error", err, "correlation_id", inv.correlationID)
	}
}

// userToken mints a token scoping the invoking user to their current room.
func (inv *invocation) userToken(ctx context.Context) (string, error) {
	return inv.router.minter.MintUserToken(ctx, inv.message.Author.ID)
}

func (inv *invocation) replyText(content string) {
	inv.reply(&discordgo.MessageSend{Content: content})
}

func (inv *invocation) replyEmbed(embed *discordgo.MessageEmbed) {
	inv.reply(&discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}})
}

func (inv *invocation) reply(send *discordgo.MessageSend) {
	safeReply(inv.session, inv.message, send, inv.router.log)
}
