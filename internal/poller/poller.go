// Package poller runs the background goroutines that keep connected UIs
// current: an internet connectivity probe and a now-playing poll, both
// published to the event bus.
package poller

import (
	"context"
	"log/slog"
	"net"
	"time"

	"golang.org/x/time/rate"

	"github.com/Vincent1Vincent2/spotipi-go/internal/events"
	"github.com/Vincent1Vincent2/spotipi-go/internal/models"
)

// dialFunc is a variable so tests can inject a mock dialer.
var dialFunc = func(network, address string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout(network, address, timeout)
}

const (
	onlineProbeAddr    = "1.1.1.1:53"
	onlineProbeTimeout = 3 * time.Second
	onlineInterval     = 5 * time.Minute
	playbackInterval   = 5 * time.Second
)

// PlaybackSource supplies the current playback snapshot. A nil snapshot
// with nil error means nothing is playing.
type PlaybackSource interface {
	PlaybackState(ctx context.Context) (*models.PlaybackState, error)
	Authenticated() bool
}

// Service polls connectivity and playback in the background.
type Service struct {
	source  PlaybackSource
	bus     *events.Bus
	logger  *slog.Logger
	limiter *rate.Limiter

	onlineInterval   time.Duration
	playbackInterval time.Duration
}

// New creates a poller publishing to the given bus.
func New(source PlaybackSource, bus *events.Bus, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source: source,
		bus:    bus,
		logger: logger,
		// The playback poll calls the Spotify API on the operator's
		// credentials; cap it well under Spotify's rate limits even if
		// the interval is tuned down.
		limiter:          rate.NewLimiter(rate.Every(time.Second), 3),
		onlineInterval:   onlineInterval,
		playbackInterval: playbackInterval,
	}
}

// Start launches the background goroutines and blocks until ctx is
// cancelled.
func (s *Service) Start(ctx context.Context) {
	go s.runCheckOnline(ctx)
	go s.runPollPlayback(ctx)
	<-ctx.Done()
}

// Online reports current connectivity with a single probe.
func Online() bool {
	conn, err := dialFunc("tcp", onlineProbeAddr, onlineProbeTimeout)
	if conn != nil {
		conn.Close()
	}
	return err == nil
}

// runCheckOnline probes connectivity periodically and publishes on change.
func (s *Service) runCheckOnline(ctx context.Context) {
	lastStatus := false
	first := true

	check := func() {
		online := Online()
		if first || online != lastStatus {
			first = false
			lastStatus = online
			s.bus.Publish(models.Event{Type: "online", Online: &online})
			s.logger.Info("online status", "online", online)
		}
	}

	check() // immediate first check

	ticker := time.NewTicker(s.onlineInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

// runPollPlayback polls the now-playing state while someone is subscribed
// and the operator is authenticated. Idle paused intervals keep the
// appliance quiet when no UI is open.
func (s *Service) runPollPlayback(ctx context.Context) {
	var last *models.PlaybackState

	ticker := time.NewTicker(s.playbackInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if s.bus.SubscriberCount() == 0 || !s.source.Authenticated() {
			continue
		}
		if !s.limiter.Allow() {
			continue
		}

		state, err := s.source.PlaybackState(ctx)
		if err != nil {
			s.logger.Debug("playback poll failed", "err", err)
			continue
		}
		if !playbackChanged(last, state) {
			continue
		}
		last = state
		s.bus.Publish(models.Event{Type: "playback", Playback: state})
	}
}

// playbackChanged reports whether the snapshot differs enough to notify
// UIs. Progress alone advances every poll so it is ignored; clients tween
// the progress bar locally.
func playbackChanged(prev, next *models.PlaybackState) bool {
	if prev == nil || next == nil {
		return prev != next
	}
	if prev.IsPlaying != next.IsPlaying {
		return true
	}
	prevID, nextID := "", ""
	if prev.Item != nil {
		prevID = prev.Item.ID
	}
	if next.Item != nil {
		nextID = next.Item.ID
	}
	return prevID != nextID
}
