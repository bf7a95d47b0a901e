package repository

import (
	"errors"

	"github.com/senyabanana/sealed-tender/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrAlreadyRated возвращается при повторной оценке победителя тендера.
var ErrAlreadyRated = errors.New("winner is already rated")

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// closedPhase - фаза тендера, который уже вышел из статуса Open.
func closedPhase(status models.TenderStatus) models.Phase {
	switch status {
	case models.StatusFinalized:
		return models.PhaseFinalized
	case models.StatusCanceled:
		return models.PhaseCanceled
	}
	return models.PhaseAwaitingClose
}
