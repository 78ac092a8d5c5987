package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/unread-tracker/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// List returns the full record set ordered by insertion position.
func (s *SQLiteStore) List(ctx context.Context) ([]model.NotificationRecord, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM records ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	records := []model.NotificationRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Replace atomically overwrites the whole record set, rewriting insertion
// positions from the order of the given slice. Records without an ID are
// assigned a new UUID.
func (s *SQLiteStore) Replace(
	ctx context.Context,
	records []model.NotificationRecord,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}

	const query = `
		INSERT INTO records (
			id, url, item_type, item_state, title, repo_full_name,
			event_date, event_date_title, participating, participants,
			position, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now().UTC()
		}

		participants, err := json.Marshal(rec.Participants)
		if err != nil {
			return fmt.Errorf("marshaling participants for %s: %w", rec.URL, err)
		}

		_, err = stmt.ExecContext(ctx,
			rec.ID, rec.URL, string(rec.Type), string(rec.State),
			rec.Title, rec.RepoFullName,
			rec.Date.UTC(), rec.DateTitle,
			boolToInt(rec.IsParticipating), string(participants),
			i, rec.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.URL, err)
		}
	}

	return tx.Commit()
}

// scanRecord scans a record row from a sqlx.Rows result set.
func scanRecord(rows *sqlx.Rows) (model.NotificationRecord, error) {
	var (
		rec           model.NotificationRecord
		itemType      string
		itemState     string
		eventDate     time.Time
		participating int
		participants  string
		position      int
		createdAt     time.Time
	)

	err := rows.Scan(
		&rec.ID, &rec.URL, &itemType, &itemState,
		&rec.Title, &rec.RepoFullName,
		&eventDate, &rec.DateTitle,
		&participating, &participants,
		&position, &createdAt,
	)
	if err != nil {
		return model.NotificationRecord{}, fmt.Errorf("scanning record row: %w", err)
	}

	rec.Type = model.ItemType(itemType)
	rec.State = model.ItemState(itemState)
	rec.Date = eventDate
	rec.IsParticipating = participating != 0
	rec.CreatedAt = createdAt

	if participants != "" {
		if err := json.Unmarshal([]byte(participants), &rec.Participants); err != nil {
			return model.NotificationRecord{}, fmt.Errorf("unmarshaling participants: %w", err)
		}
	}

	return rec, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
