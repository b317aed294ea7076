// Package history keeps a local record of generated tracking summaries
// so past queries can be reviewed without hitting the remote API again.
package history

import (
	"fmt"
	"time"

	"crawshaw.io/sqlite"
	"github.com/google/uuid"
)

// Entry is one recorded summary query.
type Entry struct {
	ID           string    `json:"id"`
	TeamMemberID string    `json:"team_member_id"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	Summary      string    `json:"summary"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store records summary queries and lists them back, newest first.
type Store interface {
	Record(teamMemberID, startDate, endDate, summary string) error
	Recent(limit int) ([]Entry, error)
	Close() error
}

// SQLiteStore is a Store backed by a local SQLite database.
type SQLiteStore struct {
	conn   *sqlite.Conn
	dbPath string
}

// NewSQLiteStore creates an uninitialized store.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Initialize opens the database at dbPath, creating it and the history
// table when missing.
func (s *SQLiteStore) Initialize(dbPath string) error {
	s.dbPath = dbPath

	conn, err := sqlite.OpenConn(dbPath, sqlite.SQLITE_OPEN_CREATE|sqlite.SQLITE_OPEN_READWRITE)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}
	s.conn = conn

	if err := s.createTable(); err != nil {
		s.conn.Close()
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

func (s *SQLiteStore) createTable() error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS summary_history (
		id TEXT PRIMARY KEY,
		team_member_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		summary TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);`

	stmt, err := s.conn.Prepare(createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare create table statement: %w", err)
	}
	defer stmt.Reset()

	if _, err := stmt.Step(); err != nil {
		return fmt.Errorf("failed to execute create table statement: %w", err)
	}

	return nil
}

// Close closes the store and releases any resources.
func (s *SQLiteStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Record stores one summary query result.
func (s *SQLiteStore) Record(teamMemberID, startDate, endDate, summary string) error {
	insertSQL := `
	INSERT INTO summary_history (id, team_member_id, start_date, end_date, summary, created_at)
	VALUES (?, ?, ?, ?, ?, ?);`

	stmt, err := s.conn.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Reset()

	// Bind parameters - indices in sqlite are 1-based
	stmt.BindText(1, uuid.NewString())
	stmt.BindText(2, teamMemberID)
	stmt.BindText(3, startDate)
	stmt.BindText(4, endDate)
	stmt.BindText(5, summary)
	stmt.BindInt64(6, time.Now().Unix())

	if _, err := stmt.Step(); err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	return nil
}

// Recent returns up to limit entries, newest first.
func (s *SQLiteStore) Recent(limit int) ([]Entry, error) {
	selectSQL := `
	SELECT id, team_member_id, start_date, end_date, summary, created_at
	FROM summary_history
	ORDER BY created_at DESC
	LIMIT ?;`

	stmt, err := s.conn.Prepare(selectSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Reset()

	stmt.BindInt64(1, int64(limit))

	var entries []Entry
	for {
		hasRow, err := stmt.Step()
		if err != nil {
			return nil, fmt.Errorf("failed to execute select statement: %w", err)
		}
		if !hasRow {
			break
		}

		entries = append(entries, Entry{
			ID:           stmt.ColumnText(0),
			TeamMemberID: stmt.ColumnText(1),
			StartDate:    stmt.ColumnText(2),
			EndDate:      stmt.ColumnText(3),
			Summary:      stmt.ColumnText(4),
			CreatedAt:    time.Unix(stmt.ColumnInt64(5), 0).UTC(),
		})
	}

	return entries, nil
}
