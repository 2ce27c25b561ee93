package gamemode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Registry_Contains_All_Fifteen_Modes(t *testing.T) {
	require.Len(t, Modes(), 15)
}

func Test_ForMode_Rejects_Unknown_Mode(t *testing.T) {
	// Act
	_, err := ForMode("musical-chairs")

	// Assert
	require.Error(t, err)
}

func Test_DefaultPoints_Maps_Flags_To_Point_Values(t *testing.T) {
	// Arrange - the exact:2 / close:1 shape most modes use
	policy := Policy{Points: Points{Exact: 2, Close: 1, Bonus: 1, Max: 3}}

	// Act / Assert
	require.Equal(t, 2, policy.DefaultPoints(Flags{Exact: true}))
	require.Equal(t, 1, policy.DefaultPoints(Flags{Close: true}))
	require.Equal(t, 0, policy.DefaultPoints(Flags{}))
	require.Equal(t, 3, policy.DefaultPoints(Flags{Exact: true, Bonus: true}))
}

func Test_DefaultPoints_Prefers_Exact_Over_Close(t *testing.T) {
	// Arrange
	policy := Policy{Points: Points{Exact: 2, Close: 1, Max: 3}}

	// Act - a sloppy host console sent both flags
	points := policy.DefaultPoints(Flags{Exact: true, Close: true})

	// Assert
	require.Equal(t, 2, points)
}

func Test_DefaultPoints_Clamps_To_Mode_Maximum(t *testing.T) {
	// Arrange - bonus would push past the cap
	policy := Policy{Points: Points{Exact: 3, Close: 1, Bonus: 2, Max: 4}}

	// Act
	points := policy.DefaultPoints(Flags{Exact: true, Bonus: true})

	// Assert
	require.Equal(t, 4, points)
}

func Test_Clamp_Bounds_Explicit_Points(t *testing.T) {
	// Arrange
	policy := Policy{Points: Points{Max: 3}}

	// Act / Assert
	require.Equal(t, 0, policy.Clamp(-5))
	require.Equal(t, 2, policy.Clamp(2))
	require.Equal(t, 3, policy.Clamp(99))
}

func Test_WithPoints_Overrides_Registry_Defaults(t *testing.T) {
	// Arrange
	policy, err := ForMode(ModeTrivia)
	require.NoError(t, err)

	// Act
	tuned := policy.WithPoints(Points{Exact: 5, Close: 2, Bonus: 0, Max: 5})

	// Assert
	require.Equal(t, 5, tuned.DefaultPoints(Flags{Exact: true}))
	require.Equal(t, 2, policy.DefaultPoints(Flags{Exact: true}))
}

func Test_Less_Orders_By_Total_Then_Signals_Then_Name(t *testing.T) {
	// Arrange
	policy, err := ForMode(ModeTrivia)
	require.NoError(t, err)

	ahead := Tally{TeamName: "Beta", TotalPoints: 5}
	behind := Tally{TeamName: "Alpha", TotalPoints: 3}

	// Act / Assert
	require.True(t, policy.Less(ahead, behind))
	require.False(t, policy.Less(behind, ahead))

	// Equal totals: trivia breaks ties on exact count first.
	moreExact := Tally{TeamName: "Beta", TotalPoints: 5, ExactCount: 2}
	fewerExact := Tally{TeamName: "Alpha", TotalPoints: 5, ExactCount: 1}
	require.True(t, policy.Less(moreExact, fewerExact))

	// Identical tallies: alphabetical, case-insensitive.
	require.True(t, policy.Less(Tally{TeamName: "alpha"}, Tally{TeamName: "Beta"}))
}

func Test_Round_Closing_Modes_Are_Flagged(t *testing.T) {
	// Arrange - the four formats scored a full round at a time
	closing := []Mode{ModeCrateCategory, ModeGenreImposter, ModeBackToBack, ModeLyricGapRelay}

	// Act / Assert
	for _, mode := range closing {
		policy, err := ForMode(mode)
		require.NoError(t, err)
		require.True(t, policy.ClosesRounds, "mode %s should close rounds", mode)
	}

	trivia, err := ForMode(ModeTrivia)
	require.NoError(t, err)
	require.False(t, trivia.ClosesRounds)
}

func Test_Every_Mode_Has_Sane_Points_And_Deck(t *testing.T) {
	for _, mode := range Modes() {
		policy, err := ForMode(mode)
		require.NoError(t, err)

		require.Greater(t, policy.Points.Max, 0, "mode %s", mode)
		require.LessOrEqual(t, policy.Points.Exact, policy.Points.Max, "mode %s", mode)
		require.Greater(t, policy.Deck.RoundCount, 0, "mode %s", mode)
		require.Greater(t, policy.Deck.ItemsPerRound, 0, "mode %s", mode)
	}
}
