package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/LdDl/mot-cleaner/config"
	"github.com/LdDl/mot-cleaner/mot"
	"github.com/google/uuid"
)

const (
	timeLayout    = "2006-01-02 15:04:05.999999999"
	// Fixed width so runs sort by creation time as text
	runTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Run describes a single pipeline execution stored in the database
type Run struct {
	ID         uuid.UUID
	CreatedAt  time.Time
	Source     string
	WindowTime time.Duration
	MaxOverlap float64
	FillMode   config.FillMode
	InputRows  int
	OutputRows int
}

// NewRun creates run record with fresh identifier
func NewRun(source string, cfg config.Config, summary mot.Summary) Run {
	return Run{
		ID:         uuid.New(),
		CreatedAt:  time.Now().UTC(),
		Source:     source,
		WindowTime: cfg.WindowTime,
		MaxOverlap: cfg.MaxOverlap,
		FillMode:   cfg.FillMode,
		InputRows:  summary.InputRows,
		OutputRows: summary.OutputRows,
	}
}

// quoted column list built from mot.Schema; index and timestamp are SQL keywords
func schemaColumns() []string {
	names := make([]string, len(mot.Schema))
	for i, col := range mot.Schema {
		names[i] = `"` + col.Name + `"`
	}
	return names
}

// Save stores the run and every detection of the table in a single transaction
func (s *Store) Save(ctx context.Context, run Run, table *mot.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, created_at, source, window_time, max_overlap, fill_mode, input_rows, output_rows)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.CreatedAt.UTC().Format(runTimeLayout), run.Source,
		run.WindowTime.Seconds(), run.MaxOverlap, string(run.FillMode), run.InputRows, run.OutputRows,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	columns := append([]string{"run_id"}, schemaColumns()...)
	columns = append(columns, "interpolated")
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO detections (%s) VALUES (%s)", strings.Join(columns, ", "), placeholders,
	))
	if err != nil {
		return fmt.Errorf("failed to prepare detection insert: %w", err)
	}
	defer stmt.Close()

	args := make([]interface{}, len(columns))
	for i := range table.Rows {
		det := &table.Rows[i]
		args[0] = run.ID.String()
		for j, col := range mot.Schema {
			args[j+1] = columnArg(det, col, table.HasSourceVideo)
		}
		args[len(args)-1] = det.Interpolated
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert detection %d: %w", det.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", run.ID, err)
	}
	return nil
}

func columnArg(det *mot.Detection, col mot.Column, hasSourceVideo bool) interface{} {
	if col.Name == mot.ColumnSourceVideo && !hasSourceVideo {
		return nil
	}
	switch col.Kind {
	case mot.KindInteger:
		return int64(*det.IntColumn(col.Name))
	case mot.KindFloat:
		return *det.FloatColumn(col.Name)
	case mot.KindString:
		return *det.StringColumn(col.Name)
	case mot.KindTimestamp:
		return det.TimeColumn(col.Name).UTC().Format(timeLayout)
	default:
		return nil
	}
}

// CountDetections returns number of detections stored for the run
func (s *Store) CountDetections(ctx context.Context, runID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM detections WHERE run_id = ?`, runID.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count detections of run %s: %w", runID, err)
	}
	return count, nil
}

// LoadDetections reads back the table stored for the run, in stored order
func (s *Store) LoadDetections(ctx context.Context, runID uuid.UUID) (*mot.Table, error) {
	query := fmt.Sprintf(
		"SELECT %s, interpolated FROM detections WHERE run_id = ? ORDER BY record_id",
		strings.Join(schemaColumns(), ", "),
	)
	rows, err := s.db.QueryContext(ctx, query, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query detections of run %s: %w", runID, err)
	}
	defer rows.Close()

	table := mot.NewTable(make([]mot.Detection, 0), false)
	for rows.Next() {
		det := mot.Detection{}
		var (
			ints         = make(map[string]*int64)
			floats       = make(map[string]*float64)
			strs         = make(map[string]*sql.NullString)
			times        = make(map[string]*string)
			dest         = make([]interface{}, 0, len(mot.Schema)+1)
			interpolated bool
		)
		for _, col := range mot.Schema {
			switch col.Kind {
			case mot.KindInteger:
				ints[col.Name] = new(int64)
				dest = append(dest, ints[col.Name])
			case mot.KindFloat:
				floats[col.Name] = new(float64)
				dest = append(dest, floats[col.Name])
			case mot.KindString:
				strs[col.Name] = new(sql.NullString)
				dest = append(dest, strs[col.Name])
			case mot.KindTimestamp:
				times[col.Name] = new(string)
				dest = append(dest, times[col.Name])
			}
		}
		dest = append(dest, &interpolated)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan detection: %w", err)
		}
		for name, v := range ints {
			*det.IntColumn(name) = int(*v)
		}
		for name, v := range floats {
			*det.FloatColumn(name) = *v
		}
		for name, v := range strs {
			if v.Valid {
				*det.StringColumn(name) = v.String
				if name == mot.ColumnSourceVideo {
					table.HasSourceVideo = true
				}
			}
		}
		for name, v := range times {
			t, err := time.Parse(timeLayout, *v)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s '%s': %w", name, *v, err)
			}
			*det.TimeColumn(name) = t
		}
		det.Interpolated = interpolated
		table.Rows = append(table.Rows, det)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate detections: %w", err)
	}
	return table, nil
}

// Runs returns every stored run, oldest first
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, created_at, source, window_time, max_overlap, fill_mode, input_rows, output_rows
		FROM runs ORDER BY created_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			id, createdAt, fillMode string
			windowTime              float64
			run                     Run
		)
		err := rows.Scan(&id, &createdAt, &run.Source, &windowTime, &run.MaxOverlap, &fillMode, &run.InputRows, &run.OutputRows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("bad run id '%s': %w", id, err)
		}
		run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("bad run time '%s': %w", createdAt, err)
		}
		run.WindowTime = config.Seconds(windowTime)
		run.FillMode = config.FillMode(fillMode)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}
