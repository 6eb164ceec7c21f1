package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Run is one archived extraction.
type Run struct {
	ID         int64  `json:"id"`
	InputPath  string `json:"input_path"`
	Speaker    string `json:"speaker"`
	OutputPath string `json:"output_path"`
	Policy     string `json:"policy"`
	Format     string `json:"format"`
	Deduped    bool   `json:"deduped"`
	Matched    int    `json:"matched"`
	Kept       int    `json:"kept"`
	Bytes      int    `json:"bytes"`
	CreatedAt  int64  `json:"created_at"`
}

// Message is one cleaned message of a run.
type Message struct {
	Position  int    `json:"position"`
	Timestamp string `json:"timestamp,omitempty"`
	Body      string `json:"body"`
}

// SaveRun stores a run and its messages in one transaction and returns the
// new run ID.
func (db *DB) SaveRun(run *Run, messages []Message) (int64, error) {
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixMilli()
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin save run: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO runs (input_path, speaker, output_path, policy, format, deduped, matched, kept, bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.InputPath, run.Speaker, run.OutputPath, run.Policy, run.Format, boolToInt(run.Deduped),
		run.Matched, run.Kept, run.Bytes, run.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO run_messages (run_id, position, timestamp, body)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare run message: %w", err)
	}
	defer stmt.Close()

	for i, m := range messages {
		if _, err := stmt.Exec(id, i, m.Timestamp, m.Body); err != nil {
			return 0, fmt.Errorf("insert run message %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run: %w", err)
	}
	run.ID = id
	return id, nil
}

// GetRun returns a run by ID, or nil if it does not exist.
func (db *DB) GetRun(id int64) (*Run, error) {
	var r Run
	var deduped int
	err := db.QueryRow(`
		SELECT id, input_path, speaker, output_path, policy, format, deduped, matched, kept, bytes, created_at
		FROM runs WHERE id = ?
	`, id).Scan(&r.ID, &r.InputPath, &r.Speaker, &r.OutputPath, &r.Policy, &r.Format, &deduped,
		&r.Matched, &r.Kept, &r.Bytes, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	r.Deduped = deduped != 0
	return &r, nil
}

// GetRecentRuns returns the most recent runs, newest first. An empty speaker
// matches every run.
func (db *DB) GetRecentRuns(speaker string, limit int) ([]Run, error) {
	rows, err := db.Query(`
		SELECT id, input_path, speaker, output_path, policy, format, deduped, matched, kept, bytes, created_at
		FROM runs WHERE (? = '' OR speaker = ?)
		ORDER BY created_at DESC, id DESC LIMIT ?
	`, speaker, speaker, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var deduped int
		if err := rows.Scan(&r.ID, &r.InputPath, &r.Speaker, &r.OutputPath, &r.Policy, &r.Format, &deduped,
			&r.Matched, &r.Kept, &r.Bytes, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Deduped = deduped != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunMessages returns the messages of a run in transcript order.
func (db *DB) GetRunMessages(runID int64) ([]Message, error) {
	rows, err := db.Query(`
		SELECT position, COALESCE(timestamp, ''), body
		FROM run_messages WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("get run messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.Position, &m.Timestamp, &m.Body); err != nil {
			return nil, fmt.Errorf("scan run message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// DeleteRun removes a run and, through the foreign key, its messages.
func (db *DB) DeleteRun(id int64) error {
	result, err := db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("run %d not found", id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
