package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/crawlstat"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ crawlstat.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps every saved snapshot as a run. Loading returns the
// most recent run; older runs stay available by ID.
type SnapshotStore struct {
	db *DB
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// SaveSnapshot stores the snapshot as a new run.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snapshot *crawlstat.Snapshot) error {
	_, err := s.CreateSnapshot(ctx, snapshot)
	return err
}

// CreateSnapshot stores the snapshot as a new run and returns its ID.
func (s *SnapshotStore) CreateSnapshot(ctx context.Context, snapshot *crawlstat.Snapshot) (string, error) {
	id := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, longest_url, longest_words, created_at)
		VALUES (?, ?, ?, ?)
	`, id, snapshot.LongestPage.URL, snapshot.LongestPage.Words, createdAt); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	if err := insertEach(ctx, tx, `INSERT INTO pages (run_id, position, url) VALUES (?, ?, ?)`,
		len(snapshot.UniquePages), func(i int) []any {
			return []any{id, i, snapshot.UniquePages[i]}
		}); err != nil {
		return "", fmt.Errorf("insert pages: %w", err)
	}

	if err := insertEach(ctx, tx, `INSERT INTO words (run_id, position, word, count) VALUES (?, ?, ?, ?)`,
		len(snapshot.WordCounts), func(i int) []any {
			wc := snapshot.WordCounts[i]
			return []any{id, i, wc.Word, wc.Count}
		}); err != nil {
		return "", fmt.Errorf("insert words: %w", err)
	}

	hosts := make([]string, 0, len(snapshot.Subdomains))
	for host := range snapshot.Subdomains {
		hosts = append(hosts, host)
	}
	if err := insertEach(ctx, tx, `INSERT INTO subdomains (run_id, host, pages) VALUES (?, ?, ?)`,
		len(hosts), func(i int) []any {
			return []any{id, hosts[i], snapshot.Subdomains[hosts[i]]}
		}); err != nil {
		return "", fmt.Errorf("insert subdomains: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// insertEach runs one prepared statement n times with args(i).
func insertEach(ctx context.Context, tx *sql.Tx, query string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range n {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return err
		}
	}
	return nil
}

// LoadSnapshot returns the most recently saved run.
// Returns ENOTFOUND if no run has been saved.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context) (*crawlstat.Snapshot, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY seq DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, crawlstat.Errorf(crawlstat.ENOTFOUND, "no snapshot saved; run a crawl first")
	}
	if err != nil {
		return nil, err
	}
	return s.FindSnapshotByID(ctx, id)
}

// FindSnapshotByID retrieves the run with the given ID.
func (s *SnapshotStore) FindSnapshotByID(ctx context.Context, id string) (*crawlstat.Snapshot, error) {
	var snapshot crawlstat.Snapshot
	err := s.db.QueryRowContext(ctx, `
		SELECT longest_url, longest_words
		FROM runs
		WHERE id = ?
	`, id).Scan(&snapshot.LongestPage.URL, &snapshot.LongestPage.Words)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, crawlstat.Errorf(crawlstat.ENOTFOUND, "snapshot %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	snapshot.UniquePages = []string{}
	if err := s.scanRows(ctx, `SELECT url FROM pages WHERE run_id = ? ORDER BY position`, id, func(rows *sql.Rows) error {
		var url string
		if err := rows.Scan(&url); err != nil {
			return err
		}
		snapshot.UniquePages = append(snapshot.UniquePages, url)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("load pages: %w", err)
	}

	snapshot.WordCounts = crawlstat.WordCounts{}
	if err := s.scanRows(ctx, `SELECT word, count FROM words WHERE run_id = ? ORDER BY position`, id, func(rows *sql.Rows) error {
		var wc crawlstat.WordCount
		if err := rows.Scan(&wc.Word, &wc.Count); err != nil {
			return err
		}
		snapshot.WordCounts = append(snapshot.WordCounts, wc)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}

	snapshot.Subdomains = make(map[string]int)
	if err := s.scanRows(ctx, `SELECT host, pages FROM subdomains WHERE run_id = ?`, id, func(rows *sql.Rows) error {
		var host string
		var pages int
		if err := rows.Scan(&host, &pages); err != nil {
			return err
		}
		snapshot.Subdomains[host] = pages
		return nil
	}); err != nil {
		return nil, fmt.Errorf("load subdomains: %w", err)
	}

	return &snapshot, nil
}

func (s *SnapshotStore) scanRows(ctx context.Context, query, id string, scan func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// FindSnapshots lists saved runs, newest first.
func (s *SnapshotStore) FindSnapshots(ctx context.Context, limit, offset int) ([]*crawlstat.SnapshotInfo, error) {
	var query strings.Builder
	query.WriteString(`
		SELECT r.id, r.created_at, COUNT(p.url)
		FROM runs r
		LEFT JOIN pages p ON p.run_id = r.id
		GROUP BY r.seq
		ORDER BY r.seq DESC`)
	var args []any
	appendPagination(&query, &args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []*crawlstat.SnapshotInfo
	for rows.Next() {
		var info crawlstat.SnapshotInfo
		var createdAt string
		if err := rows.Scan(&info.ID, &createdAt, &info.UniquePages); err != nil {
			return nil, err
		}
		if info.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		infos = append(infos, &info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return infos, nil
}

// DeleteSnapshot removes a run and all its rows.
func (s *SnapshotStore) DeleteSnapshot(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return crawlstat.Errorf(crawlstat.ENOTFOUND, "snapshot %s not found", id)
	}
	return nil
}
