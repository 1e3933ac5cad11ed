package bot

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// permanentBanTTL stands in for "forever"; the backend wants an absolute
// until timestamp.
const permanentBanTTL = 100 * 365 * 24 * time.Hour

// userIDArg validates a Discord snowflake. Owner commands take IDs, not
// mentions, so anything non-numeric is rejected locally.
func userIDArg(args []string, i int) (string, error) {
	if i >= len(args) {
		return "", validationErrorf("User ID is required!")
	}
	if _, err := strconv.ParseUint(args[i], 10, 64); err != nil {
		return "", validationErrorf("User ID must be numeric!")
	}
	return args[i], nil
}

func (r *Router) userinfo(ctx context.Context, inv *invocation) error {
	userID := inv.message.Author.ID
	if len(inv.args) > 0 {
		var err error
		if userID, err = userIDArg(inv.args, 0); err != nil {
			return err
		}
	}

	user, err := r.client.GetUser(ctx, r.minter.ServiceToken(), userID)
	if err != nil {
		return err
	}

	inv.replyEmbed(userEmbed(user))
	return nil
}

// ban takes `<user_id> [reason...] [duration]`. When the last argument
// parses as a Go duration it bounds the ban; otherwise the ban is permanent
// and the whole tail is the reason.
func (r *Router) ban(ctx context.Context, inv *invocation) error {
	userID, err := userIDArg(inv.args, 0)
	if err != nil {
		return err
	}

	reason, until := parseBanArgs(inv.args[1:])

	if err := r.client.BanUser(ctx, r.minter.ServiceToken(), userID, until, reason); err != nil {
		return err
	}

	inv.replyText(fmt.Sprintf("🔨 Banned user %s. Reason: %s", userID, reason))
	return nil
}

func (r *Router) unban(ctx context.Context, inv *invocation) error {
	userID, err := userIDArg(inv.args, 0)
	if err != nil {
		return err
	}

	if err := r.client.UnbanUser(ctx, r.minter.ServiceToken(), userID); err != nil {
		return err
	}

	inv.replyText(fmt.Sprintf("✅ Unbanned user %s!", userID))
	return nil
}

// parseBanArgs splits the tail of a ban command into a reason and an until
// timestamp in epoch milliseconds.
func parseBanArgs(tail []string) (reason string, until int64) {
	duration := permanentBanTTL
	if len(tail) > 0 {
		if d, err := time.ParseDuration(tail[len(tail)-1]); err == nil && d > 0 {
			duration = d
			tail = tail[:len(tail)-1]
		}
	}

	reason = joinArgs(tail)
	if reason == "" {
		reason = "No reason given"
	}
	return reason, time.Now().Add(duration).UnixMilli()
}
