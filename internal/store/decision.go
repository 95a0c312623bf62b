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

type DecisionStore struct {
	db *pgxpool.Pool
}

func NewDecisionStore(db *pgxpool.Pool) *DecisionStore {
	return &DecisionStore{db: db}
}

func (s *DecisionStore) Create(ctx context.Context, rec *domain.VoteRecord, res *domain.ConsensusResult) error {
	votes, err := json.Marshal(rec.Votes)
	if err != nil {
		return fmt.Errorf("marshal votes: %w", err)
	}
	result, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO decisions (id, votes, result, created_at)
		 VALUES ($1, $2, $3, $4)`,
		rec.DecisionID, votes, result, rec.CreatedAt,
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

func (s *DecisionStore) GetByID(ctx context.Context, decisionID uuid.UUID) (*domain.VoteRecord, *domain.ConsensusResult, error) {
	rec := &domain.VoteRecord{DecisionID: decisionID}
	res := &domain.ConsensusResult{}

	var votes, result []byte
	err := s.db.QueryRow(ctx,
		`SELECT votes, result, created_at FROM decisions WHERE id = $1`,
		decisionID,
	).Scan(&votes, &result, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	if err := json.Unmarshal(votes, &rec.Votes); err != nil {
		return nil, nil, fmt.Errorf("unmarshal votes: %w", err)
	}
	if err := json.Unmarshal(result, res); err != nil {
		return nil, nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return rec, res, nil
}
