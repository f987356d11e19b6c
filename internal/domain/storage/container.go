package storage

import (
	"context"
	"errors"

	"taktivent/internal/domain/collaborators"
	"taktivent/internal/domain/events"
	"taktivent/internal/domain/performers"
	"taktivent/internal/domain/reviews"
	"taktivent/internal/domain/songs"
	"taktivent/internal/domain/templates"
	"taktivent/internal/domain/users"
	"taktivent/internal/domain/venues"
	"taktivent/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRunner runs fn against a container whose stores share one transaction.
type TxRunner func(ctx context.Context, fn func(tx *Container) error) error

type Container struct {
	Users         users.Store
	Venues        venues.Store
	Events        events.Store
	Songs         songs.Store
	Performers    performers.Store
	Reviews       reviews.Store
	Collaborators collaborators.Store
	Templates     templates.Store

	// RunInTx is set by NewContainer; in-memory containers may supply
	// their own.
	RunInTx TxRunner
}

func NewContainer(db *pgxpool.Pool) *Container {
	c := newStores(db)
	c.RunInTx = poolTx(db)
	return c
}

func newStores(q dbx.Querier) *Container {
	return &Container{
		Users:         users.NewRepository(q),
		Venues:        venues.NewRepository(q),
		Events:        events.NewRepository(q),
		Songs:         songs.NewRepository(q),
		Performers:    performers.NewRepository(q),
		Reviews:       reviews.NewRepository(q),
		Collaborators: collaborators.NewRepository(q),
		Templates:     templates.NewRepository(q),
	}
}

func poolTx(pool *pgxpool.Pool) TxRunner {
	return func(ctx context.Context, fn func(tx *Container) error) error {
		tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return err
		}

		defer func() {
			_ = tx.Rollback(ctx) // safe even if already committed
		}()

		if err := fn(newStores(tx)); err != nil {
			return err
		}

		return tx.Commit(ctx)
	}
}

// WithTx runs a unit of work atomically.
func (c *Container) WithTx(ctx context.Context, fn func(tx *Container) error) error {
	if c.RunInTx == nil {
		return errors.New("storage container has no transaction runner (use NewContainer)")
	}
	return c.RunInTx(ctx, fn)
}
