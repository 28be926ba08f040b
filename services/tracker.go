package services

import (
	"sync"
	"time"

	"karabox/models"
)

// Tracker states. Ended is transient: reaching the natural end of the media
// logs the completion and immediately resets to idle.
const (
	StateIdle    = "idle"
	StatePlaying = "playing"
	StatePaused  = "paused"
)

// freshPlayThreshold distinguishes a genuine play-from-start from a
// resume-after-pause: resuming more than this far into playback marks the
// session as a continuation.
const freshPlayThreshold = 1

// SessionState is the transient state of the single active video. Reset on
// every new video start or explicit restart.
type SessionState struct {
	Title        string    `json:"title"`
	StartedAt    time.Time `json:"started_at"`
	FreshPlay    bool      `json:"fresh_play"`
	LoggedStart  bool      `json:"logged_start"`
	LastPosition int       `json:"last_position"`
	TotalSeconds int       `json:"total_seconds"`
}

// PlayLogAppender is the sink for tracked playback events. PlayLogStore
// implements it.
type PlayLogAppender interface {
	Append(entry models.PlayLogEntry)
}

// PlaybackTracker records start/pause/resume/end events for the single
// active video as play log entries. Only one video may be active at a time;
// starting a new one tears down the previous session first.
type PlaybackTracker struct {
	mu      sync.Mutex
	store   PlayLogAppender
	now     func() time.Time
	state   string
	session SessionState
}

func NewPlaybackTracker(store PlayLogAppender) *PlaybackTracker {
	return &PlaybackTracker{
		store: store,
		now:   time.Now,
		state: StateIdle,
	}
}

// Start begins tracking a new video. Any live session is torn down first
// with its last known position. A start marker entry (zero played seconds)
// is logged immediately.
func (t *PlaybackTracker) Start(title string, totalSeconds int) SessionState {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.teardownLocked(t.session.LastPosition, t.session.TotalSeconds)

	now := t.now()
	t.session = SessionState{
		Title:        title,
		StartedAt:    now,
		FreshPlay:    true,
		LoggedStart:  true,
		TotalSeconds: clampSeconds(totalSeconds),
	}
	t.state = StatePlaying

	t.store.Append(models.NewPlayLogEntry(title, now, 0, 0, false))
	return t.session
}

// Pause records the current position. Pausing itself is not logged.
func (t *PlaybackTracker) Pause(position int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StatePlaying {
		return
	}
	t.session.LastPosition = clampSeconds(position)
	t.state = StatePaused
}

// Resume continues playback. Resuming more than one second into the video
// marks the session as a continuation rather than a fresh play.
func (t *PlaybackTracker) Resume(position int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StatePaused {
		return
	}
	position = clampSeconds(position)
	if position > freshPlayThreshold {
		t.session.FreshPlay = false
	}
	t.session.LastPosition = position
	t.state = StatePlaying
}

// End handles the natural end of the media. A completed entry is logged
// only when the session is still a fresh play; the tracker always resets.
func (t *PlaybackTracker) End(totalSeconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateIdle {
		return
	}

	total := clampSeconds(totalSeconds)
	if total == 0 {
		total = t.session.TotalSeconds
	}

	if t.session.FreshPlay {
		t.store.Append(models.NewPlayLogEntry(t.session.Title, t.session.StartedAt, total, total, true))
	}
	t.resetLocked()
}

// Restart replays the active video from zero: fresh session timestamp,
// fresh-play flag set, and a new start marker entry.
func (t *PlaybackTracker) Restart() (SessionState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateIdle {
		return SessionState{}, false
	}

	now := t.now()
	t.session.StartedAt = now
	t.session.FreshPlay = true
	t.session.LoggedStart = true
	t.session.LastPosition = 0
	t.state = StatePlaying

	t.store.Append(models.NewPlayLogEntry(t.session.Title, now, 0, 0, false))
	return t.session, true
}

// Stop tears down any active session. Alternate playback sources call this
// before taking over. If a start was logged and the session never reached
// its natural end, a partial-progress entry is written first.
func (t *PlaybackTracker) Stop(position, totalSeconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.teardownLocked(position, totalSeconds)
}

// UpdatePosition records the client-reported playback position so implicit
// teardowns can log accurate partial progress.
func (t *PlaybackTracker) UpdatePosition(position int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateIdle {
		return
	}
	t.session.LastPosition = clampSeconds(position)
}

// State returns the tracker state and a snapshot of the active session.
func (t *PlaybackTracker) State() (string, SessionState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state, t.session
}

func (t *PlaybackTracker) teardownLocked(position, totalSeconds int) {
	if t.state == StateIdle {
		return
	}

	if t.session.LoggedStart {
		played := clampSeconds(position)
		if played == 0 {
			played = t.session.LastPosition
		}
		total := clampSeconds(totalSeconds)
		if total == 0 {
			total = t.session.TotalSeconds
		}
		t.store.Append(models.NewPlayLogEntry(t.session.Title, t.session.StartedAt, played, total, false))
	}
	t.resetLocked()
}

func (t *PlaybackTracker) resetLocked() {
	t.session = SessionState{}
	t.state = StateIdle
}

func clampSeconds(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
