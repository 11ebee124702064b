package models

import (
	"errors"
	"strings"
)

// MaxWrong is the number of wrong guesses that ends a round.
const MaxWrong = 5

var ErrInvalidDifficulty = errors.New("invalid difficulty")

type Difficulty int

const (
	Beginner Difficulty = iota
	Intermediate
	Advanced
)

func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "Beginner"
	case Intermediate:
		return "Intermediate"
	case Advanced:
		return "Advanced"
	default:
		return "Unknown"
	}
}

func (d Difficulty) Valid() bool {
	return d >= Beginner && d <= Advanced
}

// Difficulties lists every tier, easiest first.
func Difficulties() []Difficulty {
	return []Difficulty{Beginner, Intermediate, Advanced}
}

// ParseDifficulty accepts a tier name in any letter case.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties() {
		if strings.EqualFold(strings.TrimSpace(s), d.String()) {
			return d, nil
		}
	}
	return 0, ErrInvalidDifficulty
}

func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, ErrInvalidDifficulty
	}
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type GuessStatus string

const (
	Correct  GuessStatus = "correct"
	Wrong    GuessStatus = "wrong"
	Repeat   GuessStatus = "repeat"
	Rejected GuessStatus = "rejected"
)

// GuessOutcome is the classification of a single guess. Complete and
// GameOver describe the round after the guess was applied.
type GuessOutcome struct {
	Status    GuessStatus `json:"status"`
	Positions []int       `json:"positions"`
	Complete  bool        `json:"complete"`
	GameOver  bool        `json:"game_over"`
}

type RoundStatus string

const (
	InProgress RoundStatus = "in_progress"
	Won        RoundStatus = "won"
	Lost       RoundStatus = "lost"
)

// Finished reports whether the status is terminal.
func (s RoundStatus) Finished() bool {
	return s == Won || s == Lost
}

// RoundView is the read-only state of a round handed to presentation layers.
type RoundView struct {
	ID         string      `json:"id,omitempty"`
	Difficulty Difficulty  `json:"difficulty"`
	Category   string      `json:"category"`
	Hint       string      `json:"hint"`
	Board      string      `json:"board"`
	Guessed    []string    `json:"guessed"`
	Guesses    string      `json:"guesses"`
	Lives      string      `json:"lives"`
	WrongCount int         `json:"wrong_count"`
	MaxWrong   int         `json:"max_wrong"`
	Status     RoundStatus `json:"status"`
	Frame      int         `json:"frame"`
	Word       string      `json:"word,omitempty"` // only set once the round is finished
}
