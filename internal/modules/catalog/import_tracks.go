package catalog

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/waxbound/gamenight/internal/modules/core"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

// ImportTracksCommand loads a CSV track list into the crate. Expected
// columns: title, artist, album, year, genre, bpm, discogs_ref.
type ImportTracksCommand struct {
	CSV string `json:"csv"`
}

func (c ImportTracksCommand) Validate() error {
	if strings.TrimSpace(c.CSV) == "" {
		return fmt.Errorf("csv payload is empty")
	}

	return nil
}

type ImportTracksResponse struct {
	Imported int `json:"imported"`
}

func HandleImportTracks(w http.ResponseWriter, r *http.Request) {
	command, err := core.RequestBody[ImportTracksCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	response, err := mediator.Send[ImportTracksCommand, ImportTracksResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type ImportTracksCommandHandler struct {
	db *sql.DB
}

func NewImportTracksCommandHandler(db *sql.DB) *ImportTracksCommandHandler {
	return &ImportTracksCommandHandler{db}
}

func (h *ImportTracksCommandHandler) Handle(
	ctx context.Context,
	request ImportTracksCommand,
) (ImportTracksResponse, error) {
	records, err := csv.NewReader(strings.NewReader(request.CSV)).ReadAll()
	if err != nil {
		return ImportTracksResponse{}, core.NewCommandError(400, err, core.WithReason("malformed csv"))
	}

	tracks, err := parseTracks(records)
	if err != nil {
		return ImportTracksResponse{}, core.NewCommandError(400, err)
	}

	txFn := func(ctx context.Context, tx *sql.Tx) error {
		const stmt = `
			INSERT INTO
				crate_track (id, title, artist, album, year, decade, genre, bpm, discogs_ref)
			VALUES
				(:id, :title, :artist, :album, :year, :decade, :genre, :bpm, :discogs_ref);`

		for _, track := range tracks {
			if _, err := tql.Exec(ctx, tx, stmt, track); err != nil {
				return err
			}
		}

		return nil
	}

	if err := core.Tx(ctx, h.db, txFn); err != nil {
		return ImportTracksResponse{}, core.NewCommandError(500, err)
	}

	return ImportTracksResponse{Imported: len(tracks)}, nil
}

func parseTracks(records [][]string) ([]Track, error) {
	tracks := make([]Track, 0, len(records))

	for i, record := range records {
		if i == 0 && strings.EqualFold(record[0], "title") {
			// Header row.
			continue
		}

		if len(record) < 7 {
			return nil, fmt.Errorf("row %d: expected 7 columns, got %d", i+1, len(record))
		}

		year, err := strconv.Atoi(strings.TrimSpace(record[3]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid year '%s'", i+1, record[3])
		}

		bpm := 0
		if trimmed := strings.TrimSpace(record[5]); trimmed != "" {
			if bpm, err = strconv.Atoi(trimmed); err != nil {
				return nil, fmt.Errorf("row %d: invalid bpm '%s'", i+1, record[5])
			}
		}

		tracks = append(tracks, Track{
			ID:         uuid.New(),
			Title:      strings.TrimSpace(record[0]),
			Artist:     strings.TrimSpace(record[1]),
			Album:      strings.TrimSpace(record[2]),
			Year:       year,
			Decade:     DecadeOf(year),
			Genre:      strings.TrimSpace(record[4]),
			BPM:        bpm,
			DiscogsRef: strings.TrimSpace(record[6]),
		})
	}

	return tracks, nil
}

// DecadeOf renders a year as its display decade, e.g. 1987 -> "1980s".
func DecadeOf(year int) string {
	if year <= 0 {
		return ""
	}
	return fmt.Sprintf("%ds", year/10*10)
}
