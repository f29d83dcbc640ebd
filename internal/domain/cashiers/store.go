package cashiers

import (
	"context"
	"errors"

	"foodstore/internal/dbx"

	"github.com/jackc/pgx/v5"
)

type Repository struct {
	q dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{q: q}
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Cashier, error) {
	return r.getOne(ctx, `
SELECT id, username, name, role, password_hash, created_at
FROM cashiers WHERE id=$1`, id)
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*Cashier, error) {
	return r.getOne(ctx, `
SELECT id, username, name, role, password_hash, created_at
FROM cashiers WHERE username=$1`, username)
}

func (r *Repository) getOne(ctx context.Context, query string, arg any) (*Cashier, error) {
	var (
		c    Cashier
		hash []byte
	)
	err := r.q.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Username, &c.Name, &c.Role, &hash, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c.Password.SetHash(hash)
	return &c, nil
}
