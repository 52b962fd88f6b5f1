// Package logrelay forwards log lines to a Discord webhook.
package logrelay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	defaultQueueSize   = 256
	defaultPostTimeout = 10 * time.Second
)

// Config configures a Relay.
type Config struct {
	URL string
	// Keywords drop any line containing one of them.
	Keywords  []string
	QueueSize int
	Client    *http.Client
	// ErrorOutput receives delivery failures. It must not feed back into the relay.
	ErrorOutput io.Writer
}

// Relay is an io.Writer that posts each non-empty, non-excluded line to a
// webhook from a background worker. Lines are dropped when the queue is full.
type Relay struct {
	url      string
	keywords []string
	client   *http.Client
	errOut   io.Writer

	mu      sync.Mutex
	pending bytes.Buffer
	closed  bool
	dropped int

	queue chan string
	done  chan struct{}
}

// New validates cfg and starts the delivery worker.
func New(cfg Config) (*Relay, error) {
	target := strings.TrimSpace(cfg.URL)
	if target == "" {
		return nil, errors.New("webhook url is required")
	}
	parsed, err := url.Parse(target)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("webhook url must include scheme and host")
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: defaultPostTimeout}
	}
	errOut := cfg.ErrorOutput
	if errOut == nil {
		errOut = os.Stderr
	}
	r := &Relay{
		url:      target,
		keywords: append([]string(nil), cfg.Keywords...),
		client:   client,
		errOut:   errOut,
		queue:    make(chan string, size),
		done:     make(chan struct{}),
	}
	go r.run()
	return r, nil
}

// Write buffers p and submits every complete line.
func (r *Relay) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return len(p), nil
	}
	_, _ = r.pending.Write(p)
	for {
		data := r.pending.Bytes()
		idx := bytes.IndexByte(data, '\n')
		if idx == -1 {
			break
		}
		line := string(data[:idx])
		r.pending.Next(idx + 1)
		r.submitLocked(line)
	}
	return len(p), nil
}

// Submit queues a single entry. It reports whether the entry was accepted.
func (r *Relay) Submit(text string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	return r.submitLocked(text)
}

func (r *Relay) submitLocked(text string) bool {
	if Excluded(text, r.keywords) {
		return false
	}
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return false
	}
	select {
	case r.queue <- cleaned:
		return true
	default:
		r.dropped++
		return false
	}
}

// Dropped returns the number of entries discarded because the queue was full.
func (r *Relay) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Close flushes a trailing partial line, stops accepting input and waits for
// queued entries to be delivered or for ctx to end.
func (r *Relay) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	if r.pending.Len() > 0 {
		r.submitLocked(r.pending.String())
		r.pending.Reset()
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Excluded reports whether text contains any of keywords.
func Excluded(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func (r *Relay) run() {
	defer close(r.done)
	for text := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), defaultPostTimeout)
		if err := r.post(ctx, text); err != nil {
			_, _ = fmt.Fprintf(r.errOut, "[WebhookError] %v\n", err)
		}
		cancel()
	}
}

type webhookPayload struct {
	Content string `json:"content"`
}

func (r *Relay) post(ctx context.Context, text string) error {
	body, err := json.Marshal(webhookPayload{Content: "```\n" + text + "\n```"})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("failed to send log: %d", resp.StatusCode)
	}
	return nil
}
