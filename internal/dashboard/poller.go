package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/linedeck/linedeck/internal/content"
)

// DefaultPollInterval matches the dashboard's 5-second refresh cadence.
const DefaultPollInterval = 5 * time.Second

// Snapshot mirrors the snapshot endpoint response: the most recent items
// plus the server's own timestamp, which is the authoritative cursor.
type Snapshot struct {
	Content   []content.Item `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
}

// Poller is the pull-variant subscription client. It fetches the snapshot
// endpoint on a fixed interval, emits items strictly newer than its cursor,
// and advances the cursor to each snapshot's timestamp. The first poll after
// subscribing emits everything the snapshot returns.
type Poller struct {
	endpoint   string
	interval   time.Duration
	httpClient *http.Client
	logger     *slog.Logger

	mu        sync.Mutex
	callbacks []func(content.Item)
	cursor    time.Time
	hasCursor bool
	polling   bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewPoller creates a poller for the given snapshot endpoint URL.
func NewPoller(log *slog.Logger, endpoint string, interval time.Duration) *Poller {
	if log == nil {
		log = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		endpoint:   endpoint,
		interval:   interval,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		logger:     log.With(slog.String("component", "poller")),
	}
}

// Subscribe registers a callback for new items and starts polling on the
// first subscription.
func (p *Poller) Subscribe(fn func(content.Item)) {
	p.mu.Lock()
	p.callbacks = append(p.callbacks, fn)
	p.mu.Unlock()
	p.Start(context.Background())
}

// Start begins the poll loop if it is not already running.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.polling {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.polling = true
	p.cancel = cancel
	p.done = make(chan struct{})
	p.mu.Unlock()

	p.logger.Info("polling started", slog.Duration("interval", p.interval))
	go p.run(ctx)
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	// Initial fetch before the first tick, matching the dashboard's
	// immediate catch-up behavior.
	p.pollOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	snap, err := p.fetchSnapshot(ctx)
	if err != nil {
		p.logger.Warn("poll failed", slog.Any("error", err))
		return
	}

	p.mu.Lock()
	callbacks := make([]func(content.Item), len(p.callbacks))
	copy(callbacks, p.callbacks)
	cursor, hasCursor := p.cursor, p.hasCursor
	p.cursor = snap.Timestamp
	p.hasCursor = true
	p.mu.Unlock()

	emitted := 0
	for _, item := range snap.Content {
		if hasCursor && !item.Timestamp.After(cursor) {
			continue
		}
		for _, fn := range callbacks {
			fn(item)
		}
		emitted++
	}
	if emitted > 0 {
		p.logger.Info("new content from poll", slog.Int("count", emitted))
	}
}

func (p *Poller) fetchSnapshot(ctx context.Context) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("build snapshot request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return Snapshot{}, fmt.Errorf("snapshot status %s", resp.Status)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// Active reports whether the poll loop is running.
func (p *Poller) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.polling
}

// Stop halts the poll loop. The cursor is kept so a later Start resumes
// where it left off.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.polling {
		p.mu.Unlock()
		return
	}
	cancel, done := p.cancel, p.done
	p.polling = false
	p.cancel = nil
	p.mu.Unlock()

	cancel()
	<-done
	p.logger.Info("polling stopped")
}

// Cleanup stops polling and drops all callbacks.
func (p *Poller) Cleanup() {
	p.Stop()
	p.mu.Lock()
	p.callbacks = nil
	p.mu.Unlock()
}
