package events

import (
	"context"
	"database/sql"
	"fmt"
)

type SequenceRepository interface {
	NextSequence(ctx context.Context, partitionKey string) (int64, error)
}

type sequenceRepository struct {
	db *sql.DB
}

func NewSequenceRepository(db *sql.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

func (r *sequenceRepository) NextSequence(ctx context.Context, partitionKey string) (int64, error) {
	if partitionKey == "" {
		return 0, fmt.Errorf("partition key is required")
	}

	const query = `
INSERT INTO event_sequences (partition_key, last_sequence, updated_at)
VALUES ($1, 1, NOW())
ON CONFLICT (partition_key) DO UPDATE
SET last_sequence = event_sequences.last_sequence + 1,
    updated_at = NOW()
RETURNING last_sequence
`

	var next int64
	if err := r.db.QueryRowContext(ctx, query, partitionKey).Scan(&next); err != nil {
		return 0, fmt.Errorf("increment sequence: %w", err)
	}
	return next, nil
}
