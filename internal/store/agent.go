package store

import (
	"context"
	"errors"

	"github.com/arbiterlabs/arbiter/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AgentStore struct {
	db *pgxpool.Pool
}

func NewAgentStore(db *pgxpool.Pool) *AgentStore {
	return &AgentStore{db: db}
}

func (s *AgentStore) Upsert(ctx context.Context, a *domain.Agent) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO agents (id, name, weight, vote_count, correct_count,
		                     minority_correct, majority_correct, both_wrong, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, updated_at = now()
		 RETURNING created_at, updated_at`,
		a.ID, a.Name, a.Weight, a.VoteCount, a.CorrectCount,
		a.MinorityCorrect, a.MajorityCorrect, a.BothWrong, a.Active,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (s *AgentStore) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	a := &domain.Agent{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, weight, vote_count, correct_count,
		        minority_correct, majority_correct, both_wrong, active,
		        created_at, updated_at
		 FROM agents WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Name, &a.Weight, &a.VoteCount, &a.CorrectCount,
		&a.MinorityCorrect, &a.MajorityCorrect, &a.BothWrong, &a.Active,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *AgentStore) List(ctx context.Context) ([]domain.Agent, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, weight, vote_count, correct_count,
		        minority_correct, majority_correct, both_wrong, active,
		        created_at, updated_at
		 FROM agents ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []domain.Agent
	for rows.Next() {
		var a domain.Agent
		if err := rows.Scan(&a.ID, &a.Name, &a.Weight, &a.VoteCount, &a.CorrectCount,
			&a.MinorityCorrect, &a.MajorityCorrect, &a.BothWrong, &a.Active,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

func (s *AgentStore) UpdateReputation(ctx context.Context, a *domain.Agent) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE agents
		 SET weight = $2, vote_count = $3, correct_count = $4,
		     minority_correct = $5, majority_correct = $6, both_wrong = $7,
		     updated_at = now()
		 WHERE id = $1`,
		a.ID, a.Weight, a.VoteCount, a.CorrectCount,
		a.MinorityCorrect, a.MajorityCorrect, a.BothWrong,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
