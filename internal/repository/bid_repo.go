package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/senyabanana/sealed-tender/internal/models"

	"github.com/holiman/uint256"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CommitmentRepository - интерфейс для работы с закрытыми ставками.
type CommitmentRepository interface {
	CreateCommitment(ctx context.Context, c models.Commitment) error
	GetCommitment(ctx context.Context, tenderId uint64, bidder models.Address) (*models.Commitment, error)
	MarkRevealed(ctx context.Context, tenderId uint64, bidder models.Address, amount *uint256.Int, revealedAt int64) error
	ListCommitments(ctx context.Context, tenderId uint64) ([]models.Commitment, error)
}

// PostgresCommitmentRepository - реализация CommitmentRepository для базы данных.
type PostgresCommitmentRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresCommitmentRepository создает новый экземпляр PostgresCommitmentRepository.
func NewPostgresCommitmentRepository(db *pgxpool.Pool) *PostgresCommitmentRepository {
	return &PostgresCommitmentRepository{DB: db}
}

func scanCommitment(row pgx.Row) (*models.Commitment, error) {
	var (
		c          models.Commitment
		hash       []byte
		amount     = new(uint256.Int)
		revealedAt *int64
	)
	err := row.Scan(&c.TenderID, &c.Bidder, &hash, &c.Revealed, amount, &c.CommittedAt, &revealedAt)
	if err != nil {
		return nil, err
	}
	if len(hash) != models.HashLength {
		return nil, fmt.Errorf("stored commitment for %s has %d bytes", c.Bidder, len(hash))
	}
	copy(c.Hash[:], hash)
	if c.Revealed {
		c.RevealedAmount = amount
	}
	if revealedAt != nil {
		c.RevealedAt = *revealedAt
	}
	return &c, nil
}

// CreateCommitment сохраняет закрытую ставку; вторая ставка того же участника отклоняется.
func (r *PostgresCommitmentRepository) CreateCommitment(ctx context.Context, c models.Commitment) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO bid_commitment (tender_id, bidder, commitment, committed_at)
		VALUES ($1, $2, $3, $4)`,
		c.TenderID,
		c.Bidder,
		c.Hash[:],
		c.CommittedAt)
	if isUniqueViolation(err) {
		return models.DuplicateCommitment(c.TenderID, c.Bidder)
	}
	return err
}

// GetCommitment возвращает ставку участника по тендеру.
func (r *PostgresCommitmentRepository) GetCommitment(ctx context.Context, tenderId uint64, bidder models.Address) (*models.Commitment, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT tender_id, bidder, commitment, revealed, revealed_amount, committed_at, revealed_at
		FROM bid_commitment WHERE tender_id = $1 AND bidder = $2`, tenderId, bidder)
	c, err := scanCommitment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NotFound("no commitment from %s on tender %d", bidder, tenderId)
	}
	return c, err
}

// MarkRevealed отмечает ставку раскрытой; повторное раскрытие отклоняется.
func (r *PostgresCommitmentRepository) MarkRevealed(ctx context.Context, tenderId uint64, bidder models.Address, amount *uint256.Int, revealedAt int64) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE bid_commitment SET revealed = TRUE, revealed_amount = $1, revealed_at = $2
		WHERE tender_id = $3 AND bidder = $4 AND revealed = FALSE`,
		amount, revealedAt, tenderId, bidder)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.AlreadyRevealed(tenderId, bidder)
	}
	return nil
}

// ListCommitments возвращает все ставки по тендеру в порядке подачи.
func (r *PostgresCommitmentRepository) ListCommitments(ctx context.Context, tenderId uint64) ([]models.Commitment, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT tender_id, bidder, commitment, revealed, revealed_amount, committed_at, revealed_at
		FROM bid_commitment WHERE tender_id = $1 ORDER BY committed_at, bidder`, tenderId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commitments []models.Commitment
	for rows.Next() {
		c, err := scanCommitment(rows)
		if err != nil {
			return nil, err
		}
		commitments = append(commitments, *c)
	}
	return commitments, rows.Err()
}
