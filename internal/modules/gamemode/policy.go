package gamemode

import (
	"fmt"
	"strings"
)

// Mode identifies one of the game-night formats. Every mode runs on the
// same session engine; the Policy is the only thing that differs.
type Mode string

const (
	ModeBingo          Mode = "bingo"
	ModeTrivia         Mode = "trivia"
	ModeNameThatTune   Mode = "name-that-tune"
	ModeDecadeDash     Mode = "decade-dash"
	ModeGenreImposter  Mode = "genre-imposter"
	ModeLyricGapRelay  Mode = "lyric-gap-relay"
	ModeWrongLyric     Mode = "wrong-lyric-challenge"
	ModeCoverArtClue   Mode = "cover-art-clue-chase"
	ModeBackToBack     Mode = "back-to-back-connection"
	ModeNeedleDrop     Mode = "needle-drop-roulette"
	ModeSampleDetect   Mode = "sample-detective"
	ModeOriginalCover  Mode = "original-or-cover"
	ModeCrateCategory  Mode = "crate-categories"
	ModeArtistAlias    Mode = "artist-alias"
	ModeBracketBattle  Mode = "bracket-battle"
)

// Flags are the correctness markers a host submits alongside a score.
// Their interpretation is per mode: "close" means an adjacent decade in
// decade-dash, artist-only in name-that-tune, and so on. The engine only
// maps them to points.
type Flags struct {
	Exact bool `json:"exact_match"`
	Close bool `json:"close_match"`
	Bonus bool `json:"bonus_awarded"`
}

// Points holds a mode's point values. Max caps any explicitly supplied
// award before it reaches the ledger.
type Points struct {
	Exact int
	Close int
	Bonus int
	Max   int
}

// DeckShape is a mode's default deck geometry. Bracket modes ignore
// ItemsPerRound and derive round sizes from single-elimination pairing.
type DeckShape struct {
	RoundCount    int
	ItemsPerRound int
	Bracket       bool
}

// Tally is one team's aggregated ledger view, the input to the
// leaderboard comparator.
type Tally struct {
	TeamName    string `json:"team_name"`
	TotalPoints int    `json:"total_points"`
	ExactCount  int    `json:"exact_count"`
	CloseCount  int    `json:"close_count"`
	BonusCount  int    `json:"bonus_count"`
	CallsScored int    `json:"calls_scored"`
}

type qualitySignal func(Tally) int

// Policy is everything a mode configures on the shared engine: point
// values, deck geometry, whether scoring a full round closes it, and the
// leaderboard tie-break signals.
type Policy struct {
	Mode  Mode
	Label string

	Points Points
	Deck   DeckShape

	// ClosesRounds marks modes where scoring the last open call of a
	// round closes the round, and closing the last round completes the
	// session.
	ClosesRounds bool

	signals []qualitySignal
}

// WithPoints returns a copy of the policy using the session's stored
// point values instead of the registry defaults. Hosts can tune points
// per event; the comparator and deck shape stay the mode's own.
func (p Policy) WithPoints(points Points) Policy {
	p.Points = points
	return p
}

// DefaultPoints derives an award from correctness flags when the host
// did not supply explicit points.
func (p Policy) DefaultPoints(f Flags) int {
	points := 0

	switch {
	case f.Exact:
		points = p.Points.Exact
	case f.Close:
		points = p.Points.Close
	}

	if f.Bonus {
		points += p.Points.Bonus
	}

	return p.Clamp(points)
}

// Clamp forces an awarded value into [0, Max].
func (p Policy) Clamp(points int) int {
	if points < 0 {
		return 0
	}
	if points > p.Points.Max {
		return p.Points.Max
	}
	return points
}

// Less orders two tallies for the leaderboard: total points descending,
// then the mode's quality signals descending, then team name ascending
// as the deterministic final tie-break.
func (p Policy) Less(a, b Tally) bool {
	if a.TotalPoints != b.TotalPoints {
		return a.TotalPoints > b.TotalPoints
	}

	for _, signal := range p.signals {
		if signal(a) != signal(b) {
			return signal(a) > signal(b)
		}
	}

	return strings.ToLower(a.TeamName) < strings.ToLower(b.TeamName)
}

// ForMode resolves a mode identifier to its policy.
func ForMode(mode Mode) (Policy, error) {
	policy, ok := registry[mode]
	if !ok {
		return Policy{}, fmt.Errorf("unknown game mode '%s'", mode)
	}

	return policy, nil
}

// Modes lists every registered mode identifier.
func Modes() []Mode {
	modes := make([]Mode, 0, len(registry))
	for mode := range registry {
		modes = append(modes, mode)
	}
	return modes
}
