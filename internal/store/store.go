// Package store persists estimate snapshots so receipts can be re-exported
// exactly as they were first issued.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/fraktkalkulator/internal/pricing"
)

// ErrNotFound is returned by Get when no snapshot has the requested id.
var ErrNotFound = errors.New("estimate not found")

const timeLayout = "2006-01-02 15:04:05.000"

// Record is a stored estimate: the input that produced it and the
// breakdown computed at the time.
type Record struct {
	ID             string
	CreatedAt      time.Time
	Destination    string
	HasLoadingRamp bool
	Rounding       pricing.Rounding
	RampTracking   bool
	Items          []pricing.LineItem
	Breakdown      pricing.Breakdown
}

// Input rebuilds the pricing input of the snapshot.
func (r Record) Input() pricing.Input {
	return pricing.Input{
		Items:          r.Items,
		Destination:    r.Destination,
		HasLoadingRamp: r.HasLoadingRamp,
	}
}

// Options rebuilds the pricing options the snapshot was computed with.
func (r Record) Options() pricing.Options {
	return pricing.Options{Rounding: r.Rounding, RampTracking: r.RampTracking}
}

// Summary is one row of the history list.
type Summary struct {
	ID                    string
	CreatedAt             time.Time
	Destination           string
	BillableLoadingMeters float64
	TotalCost             float64
}

// Store reads and writes estimate snapshots.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New returns a Store backed by db. The schema must already be migrated.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Save inserts rec with a fresh id and timestamp and returns the stored copy.
func (s *Store) Save(ctx context.Context, rec Record) (Record, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = s.now().UTC().Truncate(time.Millisecond)
	if rec.Items == nil {
		rec.Items = []pricing.LineItem{}
	}

	itemsJSON, err := json.Marshal(rec.Items)
	if err != nil {
		return Record{}, fmt.Errorf("encode estimate items: %w", err)
	}
	breakdownJSON, err := json.Marshal(rec.Breakdown)
	if err != nil {
		return Record{}, fmt.Errorf("encode estimate breakdown: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO estimates (
			id, created_at, destination, has_loading_ramp, rounding, ramp_tracking,
			items_json, breakdown_json, total_cost
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.CreatedAt.Format(timeLayout),
		rec.Destination,
		rec.HasLoadingRamp,
		rec.Rounding.String(),
		rec.RampTracking,
		string(itemsJSON),
		string(breakdownJSON),
		rec.Breakdown.TotalCost,
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert estimate: %w", err)
	}

	return rec, nil
}

// List returns the stored estimates newest first. A non-empty query keeps
// only estimates whose destination contains it, case-insensitively.
func (s *Store) List(ctx context.Context, query string) ([]Summary, error) {
	query = strings.TrimSpace(query)

	sqlQuery := `
		SELECT id, created_at, destination, breakdown_json
		FROM estimates
	`
	args := []any{}
	if query != "" {
		sqlQuery += ` WHERE destination LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(query)+"%")
	}
	sqlQuery += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("query estimates: %w", err)
	}
	defer rows.Close()

	summaries := make([]Summary, 0)
	for rows.Next() {
		var (
			item          Summary
			createdAt     string
			breakdownJSON string
		)
		if err := rows.Scan(&item.ID, &createdAt, &item.Destination, &breakdownJSON); err != nil {
			return nil, fmt.Errorf("scan estimate: %w", err)
		}
		if item.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		var b pricing.Breakdown
		if err := json.Unmarshal([]byte(breakdownJSON), &b); err != nil {
			return nil, fmt.Errorf("decode breakdown of estimate %s: %w", item.ID, err)
		}
		item.BillableLoadingMeters = b.BillableLoadingMeters
		item.TotalCost = b.TotalCost
		summaries = append(summaries, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate estimates: %w", err)
	}

	return summaries, nil
}

// Get loads one snapshot by id.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Record{}, ErrNotFound
	}

	var (
		rec           Record
		createdAt     string
		rounding      string
		itemsJSON     string
		breakdownJSON string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, destination, has_loading_ramp, rounding, ramp_tracking, items_json, breakdown_json
		FROM estimates
		WHERE id = ?
	`, id).Scan(
		&rec.ID,
		&createdAt,
		&rec.Destination,
		&rec.HasLoadingRamp,
		&rounding,
		&rec.RampTracking,
		&itemsJSON,
		&breakdownJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("query estimate %s: %w", id, err)
	}

	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return Record{}, err
	}
	if rec.Rounding, err = pricing.ParseRounding(rounding); err != nil {
		return Record{}, fmt.Errorf("estimate %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(itemsJSON), &rec.Items); err != nil {
		return Record{}, fmt.Errorf("decode items of estimate %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(breakdownJSON), &rec.Breakdown); err != nil {
		return Record{}, fmt.Errorf("decode breakdown of estimate %s: %w", id, err)
	}

	return rec, nil
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse estimate timestamp %q: %w", raw, err)
	}
	return t, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
