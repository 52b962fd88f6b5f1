package logx

import (
	"context"

	"pkt.systems/pslog"
	"pkt.systems/rolepost/schema"
)

type contextKey int

const (
	userKey contextKey = iota
	channelKey
	boundKey
)

// WithUser annotates the logger with the user id if present.
func WithUser(ctx context.Context, userID schema.UserID) pslog.Logger {
	log := pslog.Ctx(ctx)
	if userID != "" {
		if current, ok := ctx.Value(userKey).(schema.UserID); ok && current == userID {
			return log
		}
		log = log.With("user", userID)
	}
	return log
}

// WithChannelUser annotates the logger with channel and user identifiers.
func WithChannelUser(ctx context.Context, channelID schema.ChannelID, userID schema.UserID) pslog.Logger {
	log := WithUser(ctx, userID)
	if channelID != "" {
		if current, ok := ctx.Value(channelKey).(schema.ChannelID); ok && current == channelID {
			return log
		}
		log = log.With("channel", channelID)
	}
	return log
}

// WithInteraction annotates the logger with a platform interaction id when available.
func WithInteraction(log pslog.Logger, interactionID string) pslog.Logger {
	if interactionID != "" {
		log = log.With("interaction", interactionID)
	}
	return log
}

// ContextWithUser stores the user marker on the context for log de-duplication.
func ContextWithUser(ctx context.Context, userID schema.UserID) context.Context {
	if ctx == nil || userID == "" {
		return ctx
	}
	return context.WithValue(ctx, userKey, userID)
}

// ContextWithChannel stores the channel marker on the context for log de-duplication.
func ContextWithChannel(ctx context.Context, channelID schema.ChannelID) context.Context {
	if ctx == nil || channelID == "" {
		return ctx
	}
	return context.WithValue(ctx, channelKey, channelID)
}

// ContextWithLogger attaches log to the context and marks it as bound by a caller.
func ContextWithLogger(ctx context.Context, log pslog.Logger) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	if log == nil {
		return ctx
	}
	return context.WithValue(ctx, boundKey, true)
}

// ContextWithFallback attaches fallback unless a logger was already bound
// through ContextWithLogger.
func ContextWithFallback(ctx context.Context, fallback pslog.Logger) context.Context {
	if ctx == nil || fallback == nil {
		return ctx
	}
	if bound, _ := ctx.Value(boundKey).(bool); bound {
		return ctx
	}
	return ContextWithLogger(ctx, fallback)
}

// ContextWithChannelUserLogger attaches the logger and channel/user markers to the context.
func ContextWithChannelUserLogger(ctx context.Context, log pslog.Logger, channelID schema.ChannelID, userID schema.UserID) context.Context {
	ctx = ContextWithLogger(ctx, log)
	return ContextWithChannel(ContextWithUser(ctx, userID), channelID)
}
