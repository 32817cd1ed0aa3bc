package rowstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQL stores every named table in a single sheet_rows relation: one row
// per sheet row, with the cells serialized as a JSON array. Append order is
// the auto-increment seq order. Matching and index arithmetic stay on the
// client so the database remains a dumb flat table, exactly like the remote
// sheet it stands in for.
type MySQL struct {
	db *sql.DB
}

// OpenMySQL connects to MySQL and verifies the connection.
func OpenMySQL(user, pass, host, port, name string) (*MySQL, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &MySQL{db: db}, nil
}

// EnsureSchema creates the sheet_rows relation when it does not exist yet.
func (s *MySQL) EnsureSchema(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS sheet_rows (
		seq  BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		tbl  VARCHAR(64) NOT NULL,
		cols TEXT NOT NULL,
		KEY idx_tbl (tbl)
	)`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

// Close releases the connection pool.
func (s *MySQL) Close() error { return s.db.Close() }

// ReadTable returns the named table's rows in append (seq) order.
func (s *MySQL) ReadTable(ctx context.Context, table string) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cols FROM sheet_rows WHERE tbl = ? ORDER BY seq`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("rowstore: corrupt %s row: %w", table, err)
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}

// AppendRow inserts one row at the end of the named table.
func (s *MySQL) AppendRow(ctx context.Context, table string, row []string) error {
	raw, err := json.Marshal(row)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sheet_rows (tbl, cols) VALUES (?, ?)`, table, string(raw))
	return err
}

// FindFirstRow scans the table in seq order for the first row whose key
// columns match.
func (s *MySQL) FindFirstRow(ctx context.Context, table string, keys ...Key) (int, bool, error) {
	all, err := s.ReadTable(ctx, table)
	if err != nil {
		return 0, false, err
	}
	for i, row := range all {
		if rowMatches(row, keys) {
			return i, true, nil
		}
	}
	return 0, false, nil
}

// seqAt resolves a zero-based append-order index to the row's seq value.
func (s *MySQL) seqAt(ctx context.Context, table string, index int) (uint64, error) {
	var seq uint64
	err := s.db.QueryRowContext(ctx,
		`SELECT seq FROM sheet_rows WHERE tbl = ? ORDER BY seq LIMIT 1 OFFSET ?`,
		table, index).Scan(&seq)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("rowstore: %s has no row %d", table, index)
	}
	return seq, err
}

// OverwriteRow replaces the row at the given append-order index.
func (s *MySQL) OverwriteRow(ctx context.Context, table string, index int, row []string) error {
	seq, err := s.seqAt(ctx, table, index)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(row)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE sheet_rows SET cols = ? WHERE seq = ?`, string(raw), seq)
	return err
}

// DeleteRow removes the row at the given append-order index.
func (s *MySQL) DeleteRow(ctx context.Context, table string, index int) error {
	seq, err := s.seqAt(ctx, table, index)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM sheet_rows WHERE seq = ?`, seq)
	return err
}
