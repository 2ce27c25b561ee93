package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"testing"

	"github.com/waxbound/gamenight/internal/modules/catalog"
	"github.com/waxbound/gamenight/internal/modules/session/commands"
	"github.com/waxbound/gamenight/internal/modules/session/domain"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type responseAssertion func(*http.Response)

func sendRequest[TReq any, TResp any](
	c *http.Client,
	url string,
	method string,
	req TReq,
	opts ...responseAssertion,
) (TResp, error) {
	var resp TResp

	payload, err := json.Marshal(req)
	if err != nil {
		return resp, err
	}

	httpReq, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return resp, err
	}

	httpResp, err := c.Do(httpReq)
	if err != nil {
		return resp, err
	}

	for _, opt := range opts {
		opt(httpResp)
	}

	if httpResp.ContentLength > 0 {
		defer func() {
			_ = httpResp.Body.Close()
		}()

		responsePayload, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return resp, err
		}

		if err := json.Unmarshal(responsePayload, &resp); err != nil {
			return resp, err
		}
	}

	return resp, err
}

func expectStatus(t *testing.T, status int) responseAssertion {
	return func(resp *http.Response) {
		require.Equal(t, status, resp.StatusCode)
	}
}

var seedCrateOnce sync.Once

// seedCrate imports a generated track list through the catalog endpoint
// so session creation always has a pool to draw from.
func seedCrate(t *testing.T) {
	t.Helper()

	seedCrateOnce.Do(func() {
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)

		require.NoError(t, w.Write([]string{"title", "artist", "album", "year", "genre", "bpm", "discogs_ref"}))

		for i := 0; i < 80; i++ {
			song := gofakeit.Song()
			require.NoError(t, w.Write([]string{
				song.Name,
				song.Artist,
				gofakeit.BookTitle(),
				strconv.Itoa(gofakeit.Number(1960, 2023)),
				song.Genre,
				strconv.Itoa(gofakeit.Number(70, 180)),
				fmt.Sprintf("r%d", gofakeit.Number(100000, 999999)),
			}))
		}
		w.Flush()
		require.NoError(t, w.Error())

		response, err := sendRequest[catalog.ImportTracksCommand, catalog.ImportTracksResponse](
			fixture.client,
			fmt.Sprintf("%s%s", fixture.baseURL, "/catalog/tracks/import"),
			http.MethodPost,
			catalog.ImportTracksCommand{CSV: buf.String()},
			expectStatus(t, http.StatusOK),
		)
		require.NoError(t, err)
		require.Equal(t, 80, response.Imported)
	})
}

// createSession sets up a session with a small custom deck shape and
// returns its id along with the roster, ordered by team name.
func createSession(
	t *testing.T,
	mode string,
	roundCount int,
	itemsPerRound int,
	teamNames ...string,
) (uuid.UUID, []domain.Team) {
	t.Helper()

	seedCrate(t)

	teams := make([]commands.TeamSetup, 0, len(teamNames))
	for i, name := range teamNames {
		teams = append(teams, commands.TeamSetup{Name: name, TableLabel: fmt.Sprintf("T%d", i+1)})
	}

	command := commands.CreateSessionCommand{
		Mode:          mode,
		Title:         fmt.Sprintf("%s %s", mode, uuid.NewString()),
		RoundCount:    roundCount,
		ItemsPerRound: itemsPerRound,
		Teams:         teams,
	}

	response, err := sendRequest[commands.CreateSessionCommand, commands.CreateSessionResponse](
		fixture.client,
		fmt.Sprintf("%s%s", fixture.baseURL, "/sessions"),
		http.MethodPost,
		command,
		expectStatus(t, http.StatusCreated),
	)
	require.NoError(t, err)
	require.Equal(t, roundCount*itemsPerRound, response.CallCount)

	roster, err := tql.Query[domain.Team](
		context.Background(),
		fixture.db,
		`SELECT * FROM session_team WHERE session_id = $1 ORDER BY name;`,
		response.SessionID,
	)
	require.NoError(t, err)
	require.Len(t, roster, len(teamNames))

	return response.SessionID, roster
}

// createTriviaSession is the common case: a two-round trivia session
// with three calls per round.
func createTriviaSession(t *testing.T, teamNames ...string) (uuid.UUID, []domain.Team) {
	t.Helper()
	return createSession(t, "trivia", 2, 3, teamNames...)
}

func sessionAction(t *testing.T, sessionID uuid.UUID, action string, status int) commands.AdvanceSessionResponse {
	t.Helper()

	response, err := sendRequest[struct{}, commands.AdvanceSessionResponse](
		fixture.client,
		fmt.Sprintf("%s/sessions/%s/actions/%s", fixture.baseURL, sessionID, action),
		http.MethodPost,
		struct{}{},
		expectStatus(t, status),
	)
	require.NoError(t, err)

	return response
}

func listCalls(t *testing.T, sessionID uuid.UUID) []domain.Call {
	t.Helper()

	calls, err := sendRequest[struct{}, []domain.Call](
		fixture.client,
		fmt.Sprintf("%s/sessions/%s/calls", fixture.baseURL, sessionID),
		http.MethodGet,
		struct{}{},
		expectStatus(t, http.StatusOK),
	)
	require.NoError(t, err)

	return calls
}

func recordScores(
	t *testing.T,
	sessionID uuid.UUID,
	command commands.RecordScoresCommand,
	status int,
) commands.RecordScoresResponse {
	t.Helper()

	response, err := sendRequest[commands.RecordScoresCommand, commands.RecordScoresResponse](
		fixture.client,
		fmt.Sprintf("%s/sessions/%s/score", fixture.baseURL, sessionID),
		http.MethodPost,
		command,
		expectStatus(t, status),
	)
	require.NoError(t, err)

	return response
}

func leaderboard(t *testing.T, sessionID uuid.UUID) []domain.Standing {
	t.Helper()

	standings, err := sendRequest[struct{}, []domain.Standing](
		fixture.client,
		fmt.Sprintf("%s/sessions/%s/leaderboard", fixture.baseURL, sessionID),
		http.MethodGet,
		struct{}{},
		expectStatus(t, http.StatusOK),
	)
	require.NoError(t, err)

	return standings
}
