package statistics

import (
	"fmt"
	"math"
	"sort"
)

// Outcome is how a round finished
type Outcome int

const (
	Win Outcome = iota
	Loss
	Stand
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Stand:
		return "stand"
	default:
		return "unknown"
	}
}

// RoundResult is the outcome of a single finished round
type RoundResult struct {
	Outcome Outcome
	Score   int // final hand total, including a bust total
	Cards   int // cards drawn during the round
}

// Statistics tracks results across the rounds of a session
type Statistics struct {
	Rounds int
	Wins   int
	Losses int
	Stands int

	SumScore  float64
	SumScore2 float64 // sum of squares for variance calculation
	Values    []float64

	BestStand  int // highest score the player stood on
	TotalCards int
}

// Add incorporates a finished round into the statistics
func (s *Statistics) Add(result RoundResult) {
	score := float64(result.Score)
	s.Rounds++
	s.SumScore += score
	s.SumScore2 += score * score
	s.Values = append(s.Values, score)
	s.TotalCards += result.Cards

	switch result.Outcome {
	case Win:
		s.Wins++
	case Loss:
		s.Losses++
	case Stand:
		s.Stands++
		if result.Score > s.BestStand {
			s.BestStand = result.Score
		}
	}
}

// Mean returns the average final score per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumScore / float64(s.Rounds)
}

// Variance returns the sample variance of final scores
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumScore2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of final scores
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// Median returns the median final score
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// WinRate returns the fraction of rounds that hit 21
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// AverageCards returns the mean number of cards drawn per round
func (s *Statistics) AverageCards() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.TotalCards) / float64(s.Rounds)
}

// Validate checks that the outcome counts add up
func (s *Statistics) Validate() error {
	if s.Wins+s.Losses+s.Stands != s.Rounds {
		return fmt.Errorf("outcome mismatch: wins=%d losses=%d stands=%d rounds=%d",
			s.Wins, s.Losses, s.Stands, s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("value count %d does not match rounds %d", len(s.Values), s.Rounds)
	}
	return nil
}

// Summary returns a one-line human readable summary
func (s *Statistics) Summary() string {
	return fmt.Sprintf("%d rounds: %d won, %d lost, %d stood (avg score %.1f)",
		s.Rounds, s.Wins, s.Losses, s.Stands, s.Mean())
}
