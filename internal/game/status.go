package game

import "fmt"

// Status is the state of a game session
type Status int

const (
	InProgress Status = iota
	Won
	Lost
	Standing
)

// Target is the score that wins the game. Anything above it is a bust.
const Target = 21

// String returns the wire name of the status
func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	case Standing:
		return "standing"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further draws or stands are allowed
func (s Status) IsTerminal() bool {
	return s != InProgress
}

// Message returns the banner shown to the player for this status
func (s Status) Message(score int) string {
	switch s {
	case Won:
		return "Congratulations!!!"
	case Standing:
		return fmt.Sprintf("You stopped with %d points!", score)
	case Lost:
		return "You lose!"
	default:
		return fmt.Sprintf("Points: %d", score)
	}
}

// MarshalText encodes the status by name
func (s Status) MarshalText() ([]byte, error) {
	if s < InProgress || s > Standing {
		return nil, fmt.Errorf("unknown status %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name
func (s *Status) UnmarshalText(text []byte) error {
	status, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// ParseStatus parses a status name as produced by String
func ParseStatus(name string) (Status, error) {
	for _, s := range []Status{InProgress, Won, Lost, Standing} {
		if s.String() == name {
			return s, nil
		}
	}
	return InProgress, fmt.Errorf("unknown status %q", name)
}

// statusFor applies the draw transition rule to a hand total
func statusFor(score int) Status {
	switch {
	case score > Target:
		return Lost
	case score == Target:
		return Won
	default:
		return InProgress
	}
}
