// Package history keeps the record of finished rounds for a player session
// and can export it as a JSON transcript. Transcripts are write-only; they
// are never read back into a game.
package history

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/statistics"
)

// Round is one finished round
type Round struct {
	SessionID string      `json:"session_id"`
	Number    int         `json:"round"`
	Status    game.Status `json:"status"`
	Score     int         `json:"score"`
	Hand      []deck.Card `json:"hand"`
	EndedAt   time.Time   `json:"ended_at"`
}

// Transcript is the exported document
type Transcript struct {
	ExportedAt time.Time   `json:"exported_at"`
	Summary    string      `json:"summary"`
	Stats      StatsReport `json:"stats"`
	Rounds     []Round     `json:"rounds"`
}

// StatsReport is the JSON form of the statistics
type StatsReport struct {
	Rounds       int     `json:"rounds"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Stands       int     `json:"stands"`
	BestStand    int     `json:"best_stand"`
	MeanScore    float64 `json:"mean_score"`
	MedianScore  float64 `json:"median_score"`
	WinRate      float64 `json:"win_rate"`
	AverageCards float64 `json:"average_cards"`
}

// Recorder collects finished rounds. It accepts session events from an
// in-process game and state snapshots from a remote one; a round is only
// counted once however it is reported. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	rounds []Round
	stats  statistics.Statistics
	seen   map[roundKey]bool
	logger *log.Logger
	now    func() time.Time
}

type roundKey struct {
	session string
	round   int
}

// NewRecorder creates an empty recorder. A nil logger discards output.
func NewRecorder(logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Recorder{
		seen:   make(map[roundKey]bool),
		logger: logger.WithPrefix("history"),
		now:    time.Now,
	}
}

// Handle records round-ending events. It has the game.EventHandler
// signature so it can be passed to game.WithEventHandler.
func (r *Recorder) Handle(e game.Event) {
	if !e.IsRoundEnd() {
		return
	}
	r.record(Round{
		SessionID: e.SessionID,
		Number:    e.Round,
		Status:    e.Status,
		Score:     e.Score,
		Hand:      e.Hand,
		EndedAt:   e.Timestamp,
	})
}

// Observe records a state snapshot if it shows a finished round
func (r *Recorder) Observe(s game.State) {
	if !s.Status.IsTerminal() {
		return
	}
	r.record(Round{
		SessionID: s.SessionID,
		Number:    s.Round,
		Status:    s.Status,
		Score:     s.Score,
		Hand:      s.Hand,
	})
}

func (r *Recorder) record(round Round) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := roundKey{session: round.SessionID, round: round.Number}
	if r.seen[key] {
		return
	}
	r.seen[key] = true

	if round.EndedAt.IsZero() {
		round.EndedAt = r.now()
	}
	hand := make([]deck.Card, len(round.Hand))
	copy(hand, round.Hand)
	round.Hand = hand

	r.rounds = append(r.rounds, round)
	r.stats.Add(statistics.RoundResult{
		Outcome: outcomeFor(round.Status),
		Score:   round.Score,
		Cards:   len(hand),
	})

	r.logger.Debug("Round recorded", "session", round.SessionID, "round", round.Number,
		"status", round.Status, "score", round.Score)
}

func outcomeFor(status game.Status) statistics.Outcome {
	switch status {
	case game.Won:
		return statistics.Win
	case game.Lost:
		return statistics.Loss
	default:
		return statistics.Stand
	}
}

// Rounds returns a copy of the recorded rounds in the order they finished
func (r *Recorder) Rounds() []Round {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Round, len(r.rounds))
	copy(out, r.rounds)
	return out
}

// Stats returns a copy of the running statistics
func (r *Recorder) Stats() statistics.Statistics {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := r.stats
	stats.Values = append([]float64(nil), r.stats.Values...)
	return stats
}

// Report returns the statistics in their exported form
func (r *Recorder) Report() StatsReport {
	stats := r.Stats()
	return StatsReport{
		Rounds:       stats.Rounds,
		Wins:         stats.Wins,
		Losses:       stats.Losses,
		Stands:       stats.Stands,
		BestStand:    stats.BestStand,
		MeanScore:    stats.Mean(),
		MedianScore:  stats.Median(),
		WinRate:      stats.WinRate(),
		AverageCards: stats.AverageCards(),
	}
}

// Transcript builds the export document
func (r *Recorder) Transcript() Transcript {
	stats := r.Stats()
	return Transcript{
		ExportedAt: r.now(),
		Summary:    stats.Summary(),
		Stats:      r.Report(),
		Rounds:     r.Rounds(),
	}
}

// Export writes the transcript to path atomically
func (r *Recorder) Export(path string) error {
	transcript := r.Transcript()
	if err := fileutil.WriteJSONAtomic(path, transcript, 0644); err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	r.logger.Info("History exported", "file", path, "rounds", len(transcript.Rounds))
	return nil
}
