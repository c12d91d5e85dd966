package plans

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type dialect struct {
	driver string
	schema string
	// numbered placeholders ($1, $2, ...) instead of "?"
	numbered bool
}

var (
	sqliteDialect = dialect{
		driver: "sqlite",
		schema: `CREATE TABLE IF NOT EXISTS plan_runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id TEXT NOT NULL UNIQUE,
        ts INTEGER NOT NULL,
        scenario TEXT,
        status TEXT,
        record TEXT
    );
    CREATE INDEX IF NOT EXISTS plan_runs_ts ON plan_runs (ts);`,
	}
	postgresDialect = dialect{
		driver: "pgx",
		schema: `CREATE TABLE IF NOT EXISTS plan_runs (
        id BIGSERIAL PRIMARY KEY,
        run_id TEXT NOT NULL UNIQUE,
        ts BIGINT NOT NULL,
        scenario TEXT,
        status TEXT,
        record TEXT
    );
    CREATE INDEX IF NOT EXISTS plan_runs_ts ON plan_runs (ts);`,
		numbered: true,
	}
)

// rebind rewrites "?" placeholders for dialects that number them.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQLStore persists plan records to a SQL database. The full record is
// stored as JSON next to the indexed columns.
type SQLStore struct {
	db *sql.DB
	d  dialect
}

// NewSQLiteStore opens or creates the SQLite database at path and ensures
// schema.
func NewSQLiteStore(path string) (*SQLStore, error) {
	return openSQL(sqliteDialect, path)
}

// NewPostgresStore connects to the PostgreSQL database at dsn and ensures
// schema.
func NewPostgresStore(dsn string) (*SQLStore, error) {
	return openSQL(postgresDialect, dsn)
}

func openSQL(d dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(d.schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLStore{db: db, d: d}, nil
}

// Append writes the record to the database.
func (s *SQLStore) Append(ctx context.Context, rec PlanRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		s.d.rebind(`INSERT INTO plan_runs (run_id, ts, scenario, status, record) VALUES (?, ?, ?, ?, ?)`),
		rec.RunID, rec.Timestamp.UnixNano(), rec.Scenario, rec.Status, string(b))
	return err
}

// Query returns records matching q in time order. Indexed columns are
// filtered in SQL, the station filter in Go.
func (s *SQLStore) Query(ctx context.Context, q PlanQuery) ([]PlanRecord, error) {
	var args []any
	query := `SELECT record FROM plan_runs WHERE 1=1`
	if !q.Start.IsZero() {
		query += ` AND ts >= ?`
		args = append(args, q.Start.UnixNano())
	}
	if !q.End.IsZero() {
		query += ` AND ts <= ?`
		args = append(args, q.End.UnixNano())
	}
	if q.RunID != "" {
		query += ` AND run_id = ?`
		args = append(args, q.RunID)
	}
	if q.Scenario != "" {
		query += ` AND scenario = ?`
		args = append(args, q.Scenario)
	}
	if q.Status != "" {
		query += ` AND status = ?`
		args = append(args, q.Status)
	}
	query += ` ORDER BY ts, id`
	rows, err := s.db.QueryContext(ctx, s.d.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []PlanRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r PlanRecord
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		if q.Matches(r) {
			res = append(res, r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return q.limit(res), nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error { return s.db.Close() }
