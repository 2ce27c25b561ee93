package domain

import (
	"fmt"

	"github.com/waxbound/gamenight/internal/modules/gamemode"

	"github.com/google/uuid"
)

// SourceItem is one entry from the mode's source pool (a crate track, a
// question, a matchup seed) at deck-generation time.
type SourceItem struct {
	TrackID    *uuid.UUID
	Title      string
	Artist     string
	Prompt     string
	Answer     string
	Alternates string
}

// GenerateDeck bulk-creates the session's calls: a dense, 1-based,
// contiguous sequence partitioned into rounds. The deck is generated
// exactly once; handlers refuse regeneration for a started session.
func GenerateDeck(sessionID uuid.UUID, shape gamemode.DeckShape, items []SourceItem) ([]Call, error) {
	if shape.Bracket {
		return generateBracketDeck(sessionID, items)
	}

	if shape.RoundCount < 1 || shape.ItemsPerRound < 1 {
		return nil, fmt.Errorf("invalid deck shape: %d rounds x %d items", shape.RoundCount, shape.ItemsPerRound)
	}

	total := shape.RoundCount * shape.ItemsPerRound
	if len(items) < total {
		return nil, fmt.Errorf("source pool has %d items, deck needs %d", len(items), total)
	}

	calls := make([]Call, 0, total)
	for i := 0; i < total; i++ {
		item := items[i]
		calls = append(calls, Call{
			ID:          uuid.New(),
			SessionID:   sessionID,
			RoundNumber: i/shape.ItemsPerRound + 1,
			CallIndex:   i + 1,
			Position:    i%shape.ItemsPerRound + 1,
			TrackID:     item.TrackID,
			Title:       item.Title,
			Artist:      item.Artist,
			Prompt:      item.Prompt,
			Answer:      item.Answer,
			Alternates:  item.Alternates,
			Status:      CallPending,
		})
	}

	return calls, nil
}

// generateBracketDeck builds a single-elimination bracket over the
// largest power-of-two prefix of the seed pool. Each call is one
// matchup; later rounds reference the feeding matchups since their
// entrants are unknown until play.
func generateBracketDeck(sessionID uuid.UUID, items []SourceItem) ([]Call, error) {
	seeds := largestPowerOfTwo(len(items))
	if seeds < 2 {
		return nil, fmt.Errorf("bracket needs at least 2 seeds, got %d", len(items))
	}

	var calls []Call
	index := 0

	// First round pairs the seeds directly.
	for i := 0; i < seeds; i += 2 {
		a, b := items[i], items[i+1]
		index++
		calls = append(calls, Call{
			ID:          uuid.New(),
			SessionID:   sessionID,
			RoundNumber: 1,
			CallIndex:   index,
			Position:    index,
			Title:       a.Title,
			Artist:      a.Artist,
			Prompt:      fmt.Sprintf("%s vs %s", matchupLabel(a), matchupLabel(b)),
			Status:      CallPending,
		})
	}

	// Later rounds are placeholders fed by earlier matchup winners.
	round := 2
	for matchups := seeds / 4; matchups >= 1; matchups /= 2 {
		priorRoundStart := index - matchups*2
		for i := 0; i < matchups; i++ {
			feederA := priorRoundStart + i*2 + 1
			feederB := feederA + 1
			index++
			calls = append(calls, Call{
				ID:          uuid.New(),
				SessionID:   sessionID,
				RoundNumber: round,
				CallIndex:   index,
				Position:    i + 1,
				Prompt:      fmt.Sprintf("Winner of #%d vs winner of #%d", feederA, feederB),
				Status:      CallPending,
			})
		}
		round++
	}

	return calls, nil
}

func matchupLabel(item SourceItem) string {
	if item.Artist == "" {
		return item.Title
	}
	return fmt.Sprintf("%s - %s", item.Artist, item.Title)
}

func largestPowerOfTwo(n int) int {
	p := 1
	for p*2 <= n {
		p *= 2
	}
	if n < 2 {
		return 0
	}
	return p
}
