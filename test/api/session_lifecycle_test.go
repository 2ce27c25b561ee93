package main

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/waxbound/gamenight/internal/modules/session/commands"
	"github.com/waxbound/gamenight/internal/modules/session/domain"
	"github.com/waxbound/gamenight/internal/modules/session/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func getSession(t *testing.T, sessionID uuid.UUID) queries.SessionDetails {
	t.Helper()

	details, err := sendRequest[struct{}, queries.SessionDetails](
		fixture.client,
		fmt.Sprintf("%s/sessions/%s", fixture.baseURL, sessionID),
		http.MethodGet,
		struct{}{},
		expectStatus(t, http.StatusOK),
	)
	require.NoError(t, err)

	return details
}

func Test_CreateSession_Lands_In_Pending_With_Full_Deck(t *testing.T) {
	// Arrange / Act
	sessionID, roster := createTriviaSession(t, "The Flipsides", "Needle Nerds")

	// Assert
	details := getSession(t, sessionID)
	require.Equal(t, domain.StatusPending, details.Status)
	require.Equal(t, 0, details.CurrentCallIndex)
	require.Equal(t, 6, details.CallCount)
	require.Equal(t, 2, details.TeamCount)
	require.Equal(t, 45, details.RemainingSeconds)
	require.Len(t, roster, 2)
}

func Test_CreateSession_Rejects_Unknown_Mode(t *testing.T) {
	// Arrange
	seedCrate(t)

	command := commands.CreateSessionCommand{
		Mode:  "musical-chairs",
		Title: "Not A Real Night",
		Teams: []commands.TeamSetup{{Name: "Anyone"}},
	}

	// Act / Assert
	_, err := sendRequest[commands.CreateSessionCommand, any](
		fixture.client,
		fmt.Sprintf("%s%s", fixture.baseURL, "/sessions"),
		http.MethodPost,
		command,
		expectStatus(t, http.StatusBadRequest),
	)
	require.NoError(t, err)
}

func Test_Session_Runs_Through_Deck_Exactly_Once(t *testing.T) {
	// Arrange
	sessionID, _ := createTriviaSession(t, "Crate Diggers")

	// Act - start, then advance through all 6 calls
	start, err := sendRequest[struct{}, commands.StartSessionResponse](
		fixture.client,
		fmt.Sprintf("%s/sessions/%s/actions/start", fixture.baseURL, sessionID),
		http.MethodPost,
		struct{}{},
		expectStatus(t, http.StatusOK),
	)
	require.NoError(t, err)
	require.Equal(t, 1, start.CurrentCallIndex)
	require.Equal(t, 1, start.CurrentRound)

	for expected := 2; expected <= 6; expected++ {
		response := sessionAction(t, sessionID, "advance", http.StatusOK)
		require.False(t, response.Completed)
		require.NotNil(t, response.CurrentCallIndex)
		require.Equal(t, expected, *response.CurrentCallIndex)
	}

	// Assert - every call was visited exactly once, in deck order
	details := getSession(t, sessionID)
	require.Equal(t, domain.StatusRunning, details.Status)
	require.Equal(t, 6, details.CurrentCallIndex)
	require.Equal(t, 2, details.CurrentRound)
}

func Test_Advance_Past_Last_Call_Completes_Session(t *testing.T) {
	// Arrange
	sessionID, _ := createTriviaSession(t, "Mint Condition")
	sessionAction(t, sessionID, "start", http.StatusOK)

	for i := 0; i < 5; i++ {
		sessionAction(t, sessionID, "advance", http.StatusOK)
	}

	// Act
	response := sessionAction(t, sessionID, "advance", http.StatusOK)

	// Assert
	require.True(t, response.Completed)
	require.Nil(t, response.CurrentCallIndex)

	details := getSession(t, sessionID)
	require.Equal(t, domain.StatusCompleted, details.Status)
	require.NotNil(t, details.EndedAt)

	// Advancing a completed session is a conflict, not a no-op.
	sessionAction(t, sessionID, "advance", http.StatusConflict)
}

func Test_Start_Twice_Is_A_Conflict(t *testing.T) {
	// Arrange
	sessionID, _ := createTriviaSession(t, "B-Side Bandits")
	sessionAction(t, sessionID, "start", http.StatusOK)

	// Act / Assert
	sessionAction(t, sessionID, "start", http.StatusConflict)
}

func Test_Pause_And_Resume_Round_Trip(t *testing.T) {
	// Arrange
	sessionID, _ := createTriviaSession(t, "Quiet Storm")
	sessionAction(t, sessionID, "start", http.StatusOK)

	// Act
	pause, err := sendRequest[struct{}, commands.PauseSessionResponse](
		fixture.client,
		fmt.Sprintf("%s/sessions/%s/actions/pause", fixture.baseURL, sessionID),
		http.MethodPost,
		struct{}{},
		expectStatus(t, http.StatusOK),
	)
	require.NoError(t, err)
	require.LessOrEqual(t, pause.RemainingSeconds, 45)

	// Assert - frozen while paused
	paused := getSession(t, sessionID)
	require.Equal(t, domain.StatusPaused, paused.Status)
	require.Equal(t, pause.RemainingSeconds, paused.RemainingSeconds)

	// Double pause conflicts; resume restores a live countdown.
	sessionAction(t, sessionID, "pause", http.StatusConflict)

	resume, err := sendRequest[struct{}, commands.ResumeSessionResponse](
		fixture.client,
		fmt.Sprintf("%s/sessions/%s/actions/resume", fixture.baseURL, sessionID),
		http.MethodPost,
		struct{}{},
		expectStatus(t, http.StatusOK),
	)
	require.NoError(t, err)
	require.LessOrEqual(t, resume.RemainingSeconds, pause.RemainingSeconds)

	running := getSession(t, sessionID)
	require.Equal(t, domain.StatusRunning, running.Status)
	require.Nil(t, running.PausedAt)

	sessionAction(t, sessionID, "resume", http.StatusConflict)
}

func Test_Skip_Settles_Current_Call_And_Moves_On(t *testing.T) {
	// Arrange
	sessionID, _ := createTriviaSession(t, "Walkouts")
	sessionAction(t, sessionID, "start", http.StatusOK)

	// Act
	response := sessionAction(t, sessionID, "skip", http.StatusOK)

	// Assert
	require.False(t, response.Completed)
	require.NotNil(t, response.CurrentCallIndex)
	require.Equal(t, 2, *response.CurrentCallIndex)

	calls := listCalls(t, sessionID)
	require.Len(t, calls, 6)
	require.Equal(t, domain.CallSkipped, calls[0].Status)
	require.Equal(t, domain.CallAsked, calls[1].Status)
}

func Test_Skip_After_Scoring_Current_Call_Is_A_Conflict(t *testing.T) {
	// Arrange - score the open call, then hit skip instead of advance
	sessionID, roster := createTriviaSession(t, "Fat Fingers")
	sessionAction(t, sessionID, "start", http.StatusOK)

	calls := listCalls(t, sessionID)
	recordScores(t, sessionID, commands.RecordScoresCommand{
		CallID: calls[0].ID,
		Awards: []commands.Award{{TeamID: roster[0].ID, ExactMatch: true}},
	}, http.StatusOK)

	// Act
	sessionAction(t, sessionID, "skip", http.StatusConflict)

	// Assert - the call stays scored and the points stay on the board
	refreshed := listCalls(t, sessionID)
	require.Equal(t, domain.CallScored, refreshed[0].Status)

	standings := leaderboard(t, sessionID)
	require.Equal(t, 2, standings[0].TotalPoints)
}

func Test_Skip_Before_Start_Is_A_Conflict(t *testing.T) {
	// Arrange
	sessionID, _ := createTriviaSession(t, "Early Birds")

	// Act / Assert
	sessionAction(t, sessionID, "skip", http.StatusConflict)
}

func Test_GetSession_Returns_404_For_Unknown_Id(t *testing.T) {
	// Act / Assert
	_, err := sendRequest[struct{}, any](
		fixture.client,
		fmt.Sprintf("%s/sessions/%s", fixture.baseURL, uuid.New()),
		http.MethodGet,
		struct{}{},
		expectStatus(t, http.StatusNotFound),
	)
	require.NoError(t, err)
}

func Test_UpdateSession_Changes_Display_Settings_Only(t *testing.T) {
	// Arrange
	sessionID, _ := createTriviaSession(t, "Dial Twisters")

	showTimer := false
	gap := 60

	// Act
	updated, err := sendRequest[commands.UpdateSessionCommand, domain.Session](
		fixture.client,
		fmt.Sprintf("%s/sessions/%s", fixture.baseURL, sessionID),
		http.MethodPatch,
		commands.UpdateSessionCommand{ShowTimer: &showTimer, TargetGapSeconds: &gap},
		expectStatus(t, http.StatusOK),
	)

	// Assert
	require.NoError(t, err)
	require.False(t, updated.ShowTimer)
	require.Equal(t, 60, updated.TargetGapSeconds)
	require.Equal(t, 2, updated.ExactPoints)
}
