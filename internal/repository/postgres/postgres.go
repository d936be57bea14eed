package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/JuanJo0775/Veterinaria-sistema/internal/repository"
)

type scheduleRepository struct {
	db *sqlx.DB
}

type bookingRepository struct {
	db *sqlx.DB
}

type outboxRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) repository.ScheduleRepository {
	return &scheduleRepository{db: db}
}

func NewBookingRepository(db *sqlx.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}

// withTx runs fn inside a transaction, rolling back on error or panic.
func withTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
