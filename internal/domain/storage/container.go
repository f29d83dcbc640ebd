package storage

import (
	"foodstore/internal/domain/cashiers"
	"foodstore/internal/domain/orders"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Container struct {
	Orders   orders.Store
	Cashiers cashiers.Store
}

func NewContainer(db *pgxpool.Pool, gen *orders.OrderNumberGenerator) *Container {
	return &Container{
		Orders:   orders.NewRepository(db, gen),
		Cashiers: cashiers.NewRepository(db),
	}
}
