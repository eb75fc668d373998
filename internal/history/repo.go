package history

import (
	"fmt"
	"time"
)

// ScanRow is one recorded aggregation pass.
type ScanRow struct {
	ID             string    `json:"id"` // ULID, sortable by creation time
	ScannedAt      time.Time `json:"scannedAt"`
	NotesFolder    string    `json:"notesFolder"`
	DaysWithNotes  int       `json:"daysWithNotes"`
	CompletedTasks int       `json:"completedTasks"`
	TotalTasks     int       `json:"totalTasks"`
}

// DayStat is the persisted aggregate for one day of one scan.
type DayStat struct {
	DateKey        string `json:"dateKey"`
	CompletedTasks int    `json:"completedTasks"`
	TotalTasks     int    `json:"totalTasks"`
	TagCount       int    `json:"tagCount"`
}

// YearTotals sums persisted day stats for one calendar year.
type YearTotals struct {
	Year           int `json:"year"`
	DaysWithNotes  int `json:"daysWithNotes"`
	CompletedTasks int `json:"completedTasks"`
	TotalTasks     int `json:"totalTasks"`
}

// RecordScan inserts the scan row and upserts its day stats in a
// transaction. Day stats are keyed by date, last scan wins.
func (db *DB) RecordScan(scan ScanRow, days []DayStat) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("history: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO scans (id, scanned_at, notes_folder, days_with_notes, completed_tasks, total_tasks)
		VALUES (?, ?, ?, ?, ?, ?)
	`, scan.ID, scan.ScannedAt, scan.NotesFolder, scan.DaysWithNotes, scan.CompletedTasks, scan.TotalTasks)
	if err != nil {
		return fmt.Errorf("history: insert scan: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO day_stats (date_key, scan_id, completed_tasks, total_tasks, tag_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date_key) DO UPDATE SET
			scan_id         = excluded.scan_id,
			completed_tasks = excluded.completed_tasks,
			total_tasks     = excluded.total_tasks,
			tag_count       = excluded.tag_count
	`)
	if err != nil {
		return fmt.Errorf("history: prepare day upsert: %w", err)
	}
	defer stmt.Close()
	for _, d := range days {
		if _, err := stmt.Exec(d.DateKey, scan.ID, d.CompletedTasks, d.TotalTasks, d.TagCount); err != nil {
			return fmt.Errorf("history: upsert day %s: %w", d.DateKey, err)
		}
	}

	return tx.Commit()
}

// RecentScans returns the most recent scans, newest first.
func (db *DB) RecentScans(limit int) ([]ScanRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, scanned_at, notes_folder, days_with_notes, completed_tasks, total_tasks
		FROM scans ORDER BY scanned_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: recent scans: %w", err)
	}
	defer rows.Close()

	var out []ScanRow
	for rows.Next() {
		var s ScanRow
		if err := rows.Scan(&s.ID, &s.ScannedAt, &s.NotesFolder, &s.DaysWithNotes, &s.CompletedTasks, &s.TotalTasks); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// TotalsForYear sums day stats whose date key falls in the given year.
func (db *DB) TotalsForYear(year int) (YearTotals, error) {
	t := YearTotals{Year: year}
	prefix := fmt.Sprintf("%04d-", year)
	err := db.conn.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(completed_tasks), 0), COALESCE(SUM(total_tasks), 0)
		FROM day_stats WHERE date_key LIKE ? || '%'
	`, prefix).Scan(&t.DaysWithNotes, &t.CompletedTasks, &t.TotalTasks)
	if err != nil {
		return t, fmt.Errorf("history: totals for %d: %w", year, err)
	}
	return t, nil
}
