// internal/source/database.go
//
// Confluence database source.
//
// Context
// -------
// Streams the current version of every page in the requested spaces
// straight from the Confluence schema.  The statement is written once with
// `?` placeholders; sqlx.In expands the space list and Rebind converts the
// placeholders for PostgreSQL.  Unquoted identifiers keep the query valid
// on both engines (PostgreSQL folds them to lower case).
//
// Workflow
// --------
//  1. Caller opens a *sqlx.DB via internal/database.
//  2. Each builds the IN clause for the space keys and runs one query.
//  3. Rows are scanned one at a time and handed to the pipeline, in the
//     order the database returns them.
package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/pageidmap/internal/pagemap"
)

// ErrNoSpaces is returned when no space key was requested.
var ErrNoSpaces = errors.New("no space keys given")

const pageQuery = `
	SELECT c.CONTENTID AS page_id, s.SPACEKEY AS space_key, c.TITLE AS title
	FROM   CONTENT c
	JOIN   SPACES s ON c.SPACEID = s.SPACEID
	WHERE  c.CONTENTTYPE = 'PAGE'
	  AND  c.PREVVER IS NULL
	  AND  c.CONTENT_STATUS = 'current'
	  AND  s.SPACEKEY IN (?)`

// pageRow mirrors one result row.  CONTENTID is numeric in the schema;
// database/sql converts it to its decimal string form.
type pageRow struct {
	PageID   string         `db:"page_id"`
	SpaceKey string         `db:"space_key"`
	Title    sql.NullString `db:"title"`
}

// Database reads page records from a Confluence database.
type Database struct {
	DB     *sqlx.DB
	Spaces []string
	Log    *zap.SugaredLogger
}

// NewDatabase returns a Database source.  log may be nil.
func NewDatabase(db *sqlx.DB, spaces []string, log *zap.SugaredLogger) *Database {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Database{DB: db, Spaces: spaces, Log: log}
}

// Malformed is always zero; the schema guarantees three columns.
func (d *Database) Malformed() int { return 0 }

// Each implements pagemap.RecordSource.
func (d *Database) Each(ctx context.Context, fn func(pagemap.PageRecord) error) error {
	if len(d.Spaces) == 0 {
		return ErrNoSpaces
	}

	q, args, err := sqlx.In(pageQuery, d.Spaces)
	if err != nil {
		return fmt.Errorf("build page query: %w", err)
	}
	q = d.DB.Rebind(q)
	d.Log.Debugw("querying pages", "spaces", d.Spaces)

	rows, err := d.DB.QueryxContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("query pages: %w", err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var r pageRow
		if err := rows.StructScan(&r); err != nil {
			return fmt.Errorf("scan page row: %w", err)
		}
		n++
		rec := pagemap.PageRecord{
			PageID:   r.PageID,
			SpaceKey: r.SpaceKey,
			Title:    r.Title.String,
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read page rows: %w", err)
	}

	d.Log.Debugw("page query done", "rows", n)
	return nil
}
