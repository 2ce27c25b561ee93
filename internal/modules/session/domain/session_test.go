package domain

import (
	"testing"
	"time"

	"github.com/waxbound/gamenight/internal/modules/gamemode"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func pendingSession(roundCount int) Session {
	return Session{
		ID:               uuid.New(),
		Mode:             string(gamemode.ModeTrivia),
		Title:            "Thursday Night Trivia",
		RoundCount:       roundCount,
		Status:           StatusPending,
		TargetGapSeconds: 45,
	}
}

func Test_Start_Opens_First_Call(t *testing.T) {
	// Arrange
	session := pendingSession(3)
	first := Call{SessionID: session.ID, CallIndex: 1, RoundNumber: 1, Status: CallPending}

	// Act
	err := session.Start(&first, clockEpoch)

	// Assert
	require.NoError(t, err)
	require.Equal(t, StatusRunning, session.Status)
	require.Equal(t, 1, session.CurrentCallIndex)
	require.Equal(t, 1, session.CurrentRound)
	require.NotNil(t, session.StartedAt)
	require.NotNil(t, session.CountdownStartedAt)
	require.Equal(t, CallAsked, first.Status)
	require.NotNil(t, first.AskedAt)
}

func Test_Start_Fails_When_Already_Started(t *testing.T) {
	// Arrange
	session := pendingSession(3)
	first := Call{CallIndex: 1, RoundNumber: 1, Status: CallPending}

	require.NoError(t, session.Start(&first, clockEpoch))

	// Act
	err := session.Start(&first, clockEpoch)

	// Assert
	require.ErrorIs(t, err, ErrAlreadyStarted)
}

func Test_Start_Fails_On_Empty_Deck(t *testing.T) {
	// Arrange
	session := pendingSession(3)

	// Act
	err := session.Start(nil, clockEpoch)

	// Assert
	require.ErrorIs(t, err, ErrEmptyDeck)
}

func Test_Advance_Visits_Calls_In_Strictly_Increasing_Order(t *testing.T) {
	// Arrange - 3 rounds x 5 items, per the standard trivia run sheet
	session := pendingSession(3)
	deck, err := GenerateDeck(session.ID, gamemode.DeckShape{RoundCount: 3, ItemsPerRound: 5}, sourcePool(15))
	require.NoError(t, err)
	require.Len(t, deck, 15)

	require.NoError(t, session.Start(&deck[0], clockEpoch))

	// Act / Assert - each advance moves exactly one call forward
	now := clockEpoch
	for i := 1; i < len(deck); i++ {
		now = now.Add(time.Minute)

		completed, err := session.AdvanceTo(&deck[i], now)
		require.NoError(t, err)
		require.False(t, completed)
		require.Equal(t, i+1, session.CurrentCallIndex)
	}

	// Deck exhausted - the next advance completes the session.
	completed, err := session.AdvanceTo(nil, now.Add(time.Minute))
	require.NoError(t, err)
	require.True(t, completed)
	require.Equal(t, StatusCompleted, session.Status)
	require.NotNil(t, session.EndedAt)

	// And a further advance is a conflict, not a silent no-op.
	_, err = session.AdvanceTo(nil, now.Add(2*time.Minute))
	require.ErrorIs(t, err, ErrSessionCompleted)
}

func Test_Advance_Clamps_Round_Into_Configured_Range(t *testing.T) {
	// Arrange - a deck entered out of band claims round 9 on a 3-round session
	session := pendingSession(3)
	first := Call{CallIndex: 1, RoundNumber: 1, Status: CallPending}
	rogue := Call{CallIndex: 2, RoundNumber: 9, Status: CallPending}

	require.NoError(t, session.Start(&first, clockEpoch))

	// Act
	completed, err := session.AdvanceTo(&rogue, clockEpoch.Add(time.Minute))

	// Assert
	require.NoError(t, err)
	require.False(t, completed)
	require.Equal(t, 3, session.CurrentRound)
}

func Test_Pause_Requires_Running_Session(t *testing.T) {
	// Arrange
	session := pendingSession(3)

	// Act
	err := session.Pause(clockEpoch)

	// Assert
	require.ErrorIs(t, err, ErrNotRunning)
}

func Test_Resume_Requires_Paused_Session(t *testing.T) {
	// Arrange
	session := pendingSession(3)
	first := Call{CallIndex: 1, RoundNumber: 1, Status: CallPending}
	require.NoError(t, session.Start(&first, clockEpoch))

	// Act
	err := session.Resume(clockEpoch)

	// Assert
	require.ErrorIs(t, err, ErrNotPaused)
}

func Test_Pause_Sets_Snapshot_And_Timestamp(t *testing.T) {
	// Arrange
	session := pendingSession(3)
	first := Call{CallIndex: 1, RoundNumber: 1, Status: CallPending}
	require.NoError(t, session.Start(&first, clockEpoch))

	// Act
	err := session.Pause(clockEpoch.Add(12 * time.Second))

	// Assert
	require.NoError(t, err)
	require.Equal(t, StatusPaused, session.Status)
	require.NotNil(t, session.PausedAt)
	require.NotNil(t, session.PausedRemainingSeconds)
	require.Equal(t, 33, *session.PausedRemainingSeconds)
}

func Test_Resume_Clears_Pause_Fields(t *testing.T) {
	// Arrange
	session := pendingSession(3)
	first := Call{CallIndex: 1, RoundNumber: 1, Status: CallPending}
	require.NoError(t, session.Start(&first, clockEpoch))
	require.NoError(t, session.Pause(clockEpoch.Add(12*time.Second)))

	// Act
	err := session.Resume(clockEpoch.Add(time.Minute))

	// Assert
	require.NoError(t, err)
	require.Equal(t, StatusRunning, session.Status)
	require.Nil(t, session.PausedAt)
	require.Nil(t, session.PausedRemainingSeconds)
}
