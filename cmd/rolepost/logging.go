package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"pkt.systems/pslog"
	"pkt.systems/rolepost/internal/appconfig"
	"pkt.systems/rolepost/internal/logrelay"
)

// newLogger builds the process logger from LOG_* environment settings.
// Output shared with the webhook relay is kept free of color escapes.
func newLogger(w io.Writer, plain bool) pslog.Logger {
	return pslog.LoggerFromEnv(
		pslog.WithEnvWriter(w),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole, NoColor: plain}),
	)
}

// withWebhookRelay tees the process logger into the log webhook when one is
// configured. The returned close func drains pending lines.
func withWebhookRelay(ctx context.Context, cfg appconfig.LoggingConfig) (context.Context, func(), error) {
	if cfg.WebhookURL == "" {
		return ctx, func() {}, nil
	}
	relay, err := logrelay.New(logrelay.Config{
		URL:         cfg.WebhookURL,
		Keywords:    cfg.ExcludeKeywords,
		QueueSize:   cfg.WebhookQueue,
		ErrorOutput: os.Stderr,
	})
	if err != nil {
		return ctx, func() {}, err
	}
	logger := newLogger(io.MultiWriter(os.Stderr, relay), true)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	logger.Info("log webhook relay enabled", "queue", cfg.WebhookQueue)
	closeFn := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := relay.Close(closeCtx); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "log webhook relay close: %v\n", err)
		}
		if dropped := relay.Dropped(); dropped > 0 {
			_, _ = fmt.Fprintf(os.Stderr, "log webhook relay dropped %d lines\n", dropped)
		}
	}
	return pslog.ContextWithLogger(ctx, logger), closeFn, nil
}
