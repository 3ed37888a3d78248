// Package analysisstore owns the persisted analysis history. The
// sequence is append-only: entries are never edited or deleted, and
// every append is a single INSERT so concurrent analyses cannot lose
// each other's writes.
package analysisstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bizscout-backend/lib/analysisstore/db"
	"bizscout-backend/lib/listing"
	"bizscout-backend/lib/scoring"
	"bizscout-backend/lib/timezone"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

const (
	metaSchemaVersion = "schema_version"
	metaSelectedSite  = "selected_site"
)

// ErrSchemaVersion means the database was written by an incompatible
// build. Refused at open time, never during append/read.
var ErrSchemaVersion = errors.New("analysis store schema version mismatch")

// ErrUnavailable is returned by writes against a degraded store.
var ErrUnavailable = errors.New("analysis store is unavailable")

// Entry is the persisted union of an extraction record and its scoring
// result.
type Entry struct {
	ID        int64
	CreatedAt time.Time
	listing.Record
	scoring.ScoreResult
}

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

// Open applies the schema and checks the stored schema version. A
// version written by a newer build is refused here, at startup, so
// Append and ReadAll never have to deal with it.
func Open(ctx context.Context, database *sql.DB) (Store, error) {
	_, err := database.ExecContext(ctx, db.Schema)
	if err != nil {
		return Store{}, fmt.Errorf("failed to apply analysis store schema: %w", err)
	}

	qry := db.New(database)
	version, err := qry.GetMeta(ctx, metaSchemaVersion)
	if err == sql.ErrNoRows {
		err = qry.SetMeta(ctx, db.SetMetaParams{
			Key:   metaSchemaVersion,
			Value: schemaVersion,
		})
	}
	if err != nil {
		return Store{}, err
	}
	if version != "" && version != schemaVersion {
		return Store{}, fmt.Errorf("%w: have %s, expected %s", ErrSchemaVersion, version, schemaVersion)
	}

	return Store{db: database, qry: qry}, nil
}

// Degraded returns a store view over a database that could not be
// opened at all: every read sees an empty history and every write
// fails with ErrUnavailable. Lets the read-only surfaces treat a
// corrupt file the same as no history yet.
func Degraded() Store {
	return Store{}
}

// Append persists one completed analysis. The caller guarantees that
// both extraction and scoring succeeded; there is no representation
// for a partially scored entry.
func (s Store) Append(ctx context.Context, record listing.Record, result scoring.ScoreResult) (Entry, error) {
	if s.qry == nil {
		return Entry{}, ErrUnavailable
	}

	now := timezone.Now()
	id, err := s.qry.CreateAnalysisEntry(ctx, db.CreateAnalysisEntryParams{
		CreatedAt:   now.Unix(),
		Site:        record.Site,
		Title:       record.Title,
		Location:    record.Location,
		Price:       record.Price,
		Revenue:     record.Revenue,
		Employees:   record.Employees,
		Description: record.Description,
		Score:       int64(result.Score),
		Explanation: result.Explanation,
	})
	if err != nil {
		return Entry{}, fmt.Errorf("failed to append analysis entry: %w", err)
	}

	return Entry{
		ID:          id,
		CreatedAt:   now,
		Record:      record,
		ScoreResult: result,
	}, nil
}

// ReadAll returns every stored entry in insertion order. Corrupted or
// missing storage reads as an empty history rather than an error.
func (s Store) ReadAll(ctx context.Context) []Entry {
	if s.qry == nil {
		return nil
	}

	rows, err := s.qry.GetAnalysisEntries(ctx)
	if err != nil {
		slog.WarnContext(ctx, "analysis history is unreadable, treating as empty", "err", err)
		return nil
	}

	entries := make([]Entry, len(rows))
	for i, r := range rows {
		entries[i] = Entry{
			ID:        r.ID,
			CreatedAt: time.Unix(r.CreatedAt, 0).In(timezone.Location),
			Record: listing.Record{
				Site:        r.Site,
				Title:       r.Title,
				Location:    r.Location,
				Price:       r.Price,
				Revenue:     r.Revenue,
				Employees:   r.Employees,
				Description: r.Description,
			},
			ScoreResult: scoring.ScoreResult{
				Score:       int(r.Score),
				Explanation: r.Explanation,
			},
		}
	}
	return entries
}

// SelectedSite returns the site id the user last selected, or "" when
// none was ever set.
func (s Store) SelectedSite(ctx context.Context) string {
	if s.qry == nil {
		return ""
	}

	site, err := s.qry.GetMeta(ctx, metaSelectedSite)
	if err == sql.ErrNoRows {
		return ""
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to read selected site", "err", err)
		return ""
	}
	return site
}

func (s Store) SetSelectedSite(ctx context.Context, site string) error {
	if s.qry == nil {
		return ErrUnavailable
	}

	return s.qry.SetMeta(ctx, db.SetMetaParams{
		Key:   metaSelectedSite,
		Value: site,
	})
}
