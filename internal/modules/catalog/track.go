package catalog

import (
	"context"
	"database/sql"

	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

// Track is one record in the brand's crate: the source pool every deck
// is generated from and display metadata is hydrated from.
type Track struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	Artist     string    `db:"artist" json:"artist"`
	Album      string    `db:"album" json:"album"`
	Year       int       `db:"year" json:"year"`
	Decade     string    `db:"decade" json:"decade"`
	Genre      string    `db:"genre" json:"genre"`
	BPM        int       `db:"bpm" json:"bpm"`
	DiscogsRef string    `db:"discogs_ref" json:"discogs_ref"`
}

// Filter narrows the pool at deck-generation time. Zero values match
// everything.
type Filter struct {
	Genre  string `json:"genre,omitempty"`
	Decade string `json:"decade,omitempty"`
}

// Pool serves track lookups for deck generation and lazy hydration.
type Pool struct {
	db *sql.DB
}

func NewPool(db *sql.DB) *Pool {
	return &Pool{db}
}

// Pick returns up to limit tracks matching the filter in shuffled
// order, so two sessions over the same crate deal different decks.
func (p *Pool) Pick(ctx context.Context, filter Filter, limit int) ([]Track, error) {
	const query = `
		SELECT
			*
		FROM
			crate_track
		WHERE
			($1 = '' OR genre = $1)
			AND ($2 = '' OR decade = $2)
		ORDER BY
			random()
		LIMIT $3;`
	return tql.Query[Track](ctx, p.db, query, filter.Genre, filter.Decade, limit)
}

// Get fetches a single track by id.
func (p *Pool) Get(ctx context.Context, id uuid.UUID) (Track, error) {
	const query = `
		SELECT
			*
		FROM
			crate_track
		WHERE
			id = $1;`
	return tql.QueryFirst[Track](ctx, p.db, query, id)
}
