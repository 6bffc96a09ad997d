package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/linguaops/linguaflow/internal/common"
	"github.com/linguaops/linguaflow/internal/model"
	"github.com/linguaops/linguaflow/internal/service"
)

// SaveEstimate persists one applied estimate. Rows, totals and the batch
// summary are stored as JSON documents; they are snapshots, never queried
// field by field.
func (s *SQLiteStorage) SaveEstimate(ctx context.Context, record *service.EstimateRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEstimate(record); err != nil {
		return err
	}

	rowsJSON, err := json.Marshal(record.Rows)
	if err != nil {
		return fmt.Errorf("failed to encode rows: %w", err)
	}
	totalsJSON, err := json.Marshal(record.Totals)
	if err != nil {
		return fmt.Errorf("failed to encode totals: %w", err)
	}
	summaryJSON, err := json.Marshal(record.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO estimates (id, batch_id, applied_at, rows_json, totals_json, summary_json)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.ID, record.BatchID, record.AppliedAt.Format(time.RFC3339Nano),
		string(rowsJSON), string(totalsJSON), string(summaryJSON))
	if err != nil {
		return fmt.Errorf("failed to save estimate: %w", err)
	}
	return nil
}

// ListEstimates returns the applied estimates for a batch, newest first.
func (s *SQLiteStorage) ListEstimates(ctx context.Context, batchID string) ([]service.EstimateRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(batchID, "batchID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, batch_id, applied_at, rows_json, totals_json, summary_json
		FROM estimates
		WHERE batch_id = ?
		ORDER BY applied_at DESC
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query estimates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []service.EstimateRecord
	for rows.Next() {
		record, err := scanEstimate(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// GetEstimate returns one applied estimate by id.
func (s *SQLiteStorage) GetEstimate(ctx context.Context, id string) (*service.EstimateRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, batch_id, applied_at, rows_json, totals_json, summary_json
		FROM estimates
		WHERE id = ?
	`, id)

	record, err := scanEstimate(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	return record, err
}

func scanEstimate(scan func(...any) error) (*service.EstimateRecord, error) {
	var record service.EstimateRecord
	var appliedAt, rowsJSON, totalsJSON, summaryJSON string

	if err := scan(&record.ID, &record.BatchID, &appliedAt, &rowsJSON, &totalsJSON, &summaryJSON); err != nil {
		return nil, err
	}

	parsed, err := time.Parse(time.RFC3339Nano, appliedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse applied_at: %w", err)
	}
	record.AppliedAt = parsed

	if err := json.Unmarshal([]byte(rowsJSON), &record.Rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}
	if err := json.Unmarshal([]byte(totalsJSON), &record.Totals); err != nil {
		return nil, fmt.Errorf("failed to decode totals: %w", err)
	}
	if err := json.Unmarshal([]byte(summaryJSON), &record.Summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary: %w", err)
	}
	return &record, nil
}

func validateEstimate(record *service.EstimateRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if err := validateString(record.ID, "record.ID"); err != nil {
		return err
	}
	if err := validateString(record.BatchID, "record.BatchID"); err != nil {
		return err
	}
	if record.Rows == nil {
		record.Rows = []model.PricingRow{}
	}
	return nil
}
