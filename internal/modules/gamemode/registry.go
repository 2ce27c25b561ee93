package gamemode

var (
	exactCount  = func(t Tally) int { return t.ExactCount }
	closeCount  = func(t Tally) int { return t.CloseCount }
	bonusCount  = func(t Tally) int { return t.BonusCount }
	callsScored = func(t Tally) int { return t.CallsScored }
)

// registry holds every mode the brand runs. Point values and deck shapes
// come from the printed host run sheets; change them there first.
var registry = map[Mode]Policy{
	ModeBingo: {
		Mode:    ModeBingo,
		Label:   "Vinyl Bingo",
		Points:  Points{Exact: 1, Close: 0, Bonus: 2, Max: 3},
		Deck:    DeckShape{RoundCount: 1, ItemsPerRound: 40},
		signals: []qualitySignal{callsScored, bonusCount},
	},
	ModeTrivia: {
		Mode:    ModeTrivia,
		Label:   "Record Store Trivia",
		Points:  Points{Exact: 2, Close: 1, Bonus: 1, Max: 3},
		Deck:    DeckShape{RoundCount: 3, ItemsPerRound: 10},
		signals: []qualitySignal{exactCount, callsScored},
	},
	ModeNameThatTune: {
		Mode:  ModeNameThatTune,
		Label: "Name That Tune",
		// Exact means artist and title both called.
		Points:  Points{Exact: 2, Close: 1, Bonus: 1, Max: 3},
		Deck:    DeckShape{RoundCount: 2, ItemsPerRound: 12},
		signals: []qualitySignal{exactCount, bonusCount},
	},
	ModeDecadeDash: {
		Mode:  ModeDecadeDash,
		Label: "Decade Dash",
		// Close means the adjacent decade.
		Points:  Points{Exact: 2, Close: 1, Bonus: 0, Max: 2},
		Deck:    DeckShape{RoundCount: 2, ItemsPerRound: 10},
		signals: []qualitySignal{exactCount, closeCount},
	},
	ModeGenreImposter: {
		Mode:         ModeGenreImposter,
		Label:        "Genre Imposter",
		Points:       Points{Exact: 3, Close: 1, Bonus: 1, Max: 4},
		Deck:         DeckShape{RoundCount: 4, ItemsPerRound: 4},
		ClosesRounds: true,
		signals:      []qualitySignal{exactCount, callsScored},
	},
	ModeLyricGapRelay: {
		Mode:         ModeLyricGapRelay,
		Label:        "Lyric Gap Relay",
		Points:       Points{Exact: 2, Close: 1, Bonus: 1, Max: 3},
		Deck:         DeckShape{RoundCount: 3, ItemsPerRound: 6},
		ClosesRounds: true,
		signals:      []qualitySignal{exactCount, bonusCount},
	},
	ModeWrongLyric: {
		Mode:    ModeWrongLyric,
		Label:   "Wrong Lyric Challenge",
		Points:  Points{Exact: 2, Close: 0, Bonus: 1, Max: 3},
		Deck:    DeckShape{RoundCount: 2, ItemsPerRound: 8},
		signals: []qualitySignal{exactCount, callsScored},
	},
	ModeCoverArtClue: {
		Mode:    ModeCoverArtClue,
		Label:   "Cover Art Clue Chase",
		Points:  Points{Exact: 3, Close: 2, Bonus: 1, Max: 4},
		Deck:    DeckShape{RoundCount: 3, ItemsPerRound: 5},
		signals: []qualitySignal{exactCount, closeCount},
	},
	ModeBackToBack: {
		Mode:         ModeBackToBack,
		Label:        "Back to Back Connection",
		Points:       Points{Exact: 3, Close: 1, Bonus: 2, Max: 5},
		Deck:         DeckShape{RoundCount: 3, ItemsPerRound: 4},
		ClosesRounds: true,
		signals:      []qualitySignal{exactCount, bonusCount},
	},
	ModeNeedleDrop: {
		Mode:    ModeNeedleDrop,
		Label:   "Needle Drop Roulette",
		Points:  Points{Exact: 2, Close: 1, Bonus: 2, Max: 4},
		Deck:    DeckShape{RoundCount: 2, ItemsPerRound: 10},
		signals: []qualitySignal{bonusCount, exactCount},
	},
	ModeSampleDetect: {
		Mode:    ModeSampleDetect,
		Label:   "Sample Detective",
		Points:  Points{Exact: 3, Close: 1, Bonus: 1, Max: 4},
		Deck:    DeckShape{RoundCount: 2, ItemsPerRound: 8},
		signals: []qualitySignal{exactCount, closeCount},
	},
	ModeOriginalCover: {
		Mode:    ModeOriginalCover,
		Label:   "Original or Cover",
		Points:  Points{Exact: 1, Close: 0, Bonus: 1, Max: 2},
		Deck:    DeckShape{RoundCount: 2, ItemsPerRound: 15},
		signals: []qualitySignal{exactCount, callsScored},
	},
	ModeCrateCategory: {
		Mode:         ModeCrateCategory,
		Label:        "Crate Categories",
		Points:       Points{Exact: 2, Close: 1, Bonus: 1, Max: 3},
		Deck:         DeckShape{RoundCount: 5, ItemsPerRound: 4},
		ClosesRounds: true,
		signals:      []qualitySignal{exactCount, callsScored},
	},
	ModeArtistAlias: {
		Mode:    ModeArtistAlias,
		Label:   "Artist Alias",
		Points:  Points{Exact: 2, Close: 1, Bonus: 0, Max: 2},
		Deck:    DeckShape{RoundCount: 2, ItemsPerRound: 10},
		signals: []qualitySignal{exactCount, closeCount},
	},
	ModeBracketBattle: {
		Mode:   ModeBracketBattle,
		Label:  "Bracket Battle",
		Points: Points{Exact: 1, Close: 0, Bonus: 1, Max: 2},
		// 16-track single elimination: rounds of 8, 4, 2 and 1 matchups.
		Deck:    DeckShape{RoundCount: 4, ItemsPerRound: 8, Bracket: true},
		signals: []qualitySignal{exactCount, bonusCount},
	},
}
