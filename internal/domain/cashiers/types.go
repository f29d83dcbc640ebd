package cashiers

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var ErrNotFound = errors.New("cashier not found")

type Cashier struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Password  Password  `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Password struct {
	hash []byte
}

func (p *Password) Set(text string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(text), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.hash = hash
	return nil
}

// SetHash loads an existing bcrypt hash.
func (p *Password) SetHash(hash []byte) {
	p.hash = hash
}

func (p *Password) Hash() []byte {
	return p.hash
}

func (p *Password) Compare(text string) error {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(text))
}

type Store interface {
	GetByID(ctx context.Context, id int64) (*Cashier, error)
	GetByUsername(ctx context.Context, username string) (*Cashier, error)
}
