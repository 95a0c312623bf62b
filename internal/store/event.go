package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/arbiterlabs/arbiter/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventStore struct {
	db *pgxpool.Pool
}

func NewEventStore(db *pgxpool.Pool) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) Create(ctx context.Context, ev *domain.WeightUpdateEvent) error {
	deltas, err := json.Marshal(ev.Deltas)
	if err != nil {
		return fmt.Errorf("marshal deltas: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO weight_update_events
		     (decision_id, ground_truth, consensus_label, consensus_correct, deltas, applied_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		ev.DecisionID, ev.GroundTruth, ev.ConsensusLabel, ev.ConsensusCorrect, deltas, ev.AppliedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *EventStore) GetByDecisionID(ctx context.Context, decisionID uuid.UUID) (*domain.WeightUpdateEvent, error) {
	ev := &domain.WeightUpdateEvent{DecisionID: decisionID}

	var deltas []byte
	err := s.db.QueryRow(ctx,
		`SELECT ground_truth, consensus_label, consensus_correct, deltas, applied_at
		 FROM weight_update_events WHERE decision_id = $1`,
		decisionID,
	).Scan(&ev.GroundTruth, &ev.ConsensusLabel, &ev.ConsensusCorrect, &deltas, &ev.AppliedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(deltas, &ev.Deltas); err != nil {
		return nil, fmt.Errorf("unmarshal deltas: %w", err)
	}
	return ev, nil
}
