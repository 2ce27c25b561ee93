package domain

import (
	"sort"

	"github.com/waxbound/gamenight/internal/modules/gamemode"

	"github.com/google/uuid"
)

// Standing is one ranked leaderboard row.
type Standing struct {
	TeamID uuid.UUID `json:"team_id"`
	Rank   int       `json:"rank"`
	gamemode.Tally
}

// Leaderboard folds the ledger into ranked per-team totals. Inactive
// teams are excluded entirely; active teams with no entries still rank
// at zero. Ordering is the policy comparator (total, mode quality
// signals, then name) and is deterministic for a fixed ledger.
func Leaderboard(policy gamemode.Policy, teams []Team, entries []ScoreEntry) []Standing {
	byTeam := make(map[uuid.UUID]*Standing, len(teams))
	standings := make([]Standing, 0, len(teams))

	for _, team := range teams {
		if !team.Active {
			continue
		}
		standings = append(standings, Standing{
			TeamID: team.ID,
			Tally:  gamemode.Tally{TeamName: team.Name},
		})
	}

	for i := range standings {
		byTeam[standings[i].TeamID] = &standings[i]
	}

	for _, entry := range entries {
		standing, ok := byTeam[entry.TeamID]
		if !ok {
			// Inactive or foreign team; history stays in the ledger but
			// never surfaces here.
			continue
		}

		flags := entry.Flags()

		standing.TotalPoints += entry.AwardedPoints
		standing.CallsScored++
		if flags.Exact {
			standing.ExactCount++
		}
		if flags.Close {
			standing.CloseCount++
		}
		if flags.Bonus {
			standing.BonusCount++
		}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return policy.Less(standings[i].Tally, standings[j].Tally)
	})

	for i := range standings {
		standings[i].Rank = i + 1
	}

	return standings
}
