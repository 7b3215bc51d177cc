package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"allocation-system/internal/entities"
	apperrors "allocation-system/pkg/errors"
)

type ShowRepositoryInterface interface {
	FindShow(ctx context.Context, id uint64) (*entities.Show, error)
}

type ShowRepository struct {
	storage *pgxpool.Pool
}

func NewShowRepository(storage *pgxpool.Pool) ShowRepositoryInterface {
	return &ShowRepository{storage: storage}
}

func (r *ShowRepository) FindShow(ctx context.Context, id uint64) (*entities.Show, error) {
	var show entities.Show
	err := r.storage.QueryRow(ctx, `
		SELECT id, name, start_date, end_date
		FROM shows
		WHERE id = $1`, id,
	).Scan(&show.ID, &show.Name, &show.StartDate, &show.EndDate)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &show, nil
}
