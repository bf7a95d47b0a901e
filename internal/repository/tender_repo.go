package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/senyabanana/sealed-tender/internal/models"

	"github.com/holiman/uint256"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// TenderRepository - интерфейс для работы с тендерами.
type TenderRepository interface {
	CreateTender(ctx context.Context, tender models.Tender) (*models.Tender, error)
	GetTender(ctx context.Context, tenderId uint64) (*models.Tender, error)
	ListTenders(ctx context.Context, filter models.TenderFilter) ([]models.Tender, error)
	CancelTender(ctx context.Context, tenderId uint64) error
	FinalizeTender(ctx context.Context, tenderId uint64, winner *models.Winner) error
	GetWinner(ctx context.Context, tenderId uint64) (*models.Winner, error)
	SaveRating(ctx context.Context, tenderId uint64, bidder models.Address, rating uint8, ratedAt int64) error
	HasRating(ctx context.Context, tenderId uint64) (bool, error)
}

// PostgresTenderRepository - реализация TenderRepository для базы данных.
type PostgresTenderRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresTenderRepository создаёт новый экземпляр PostgresTenderRepository.
func NewPostgresTenderRepository(db *pgxpool.Pool) *PostgresTenderRepository {
	return &PostgresTenderRepository{DB: db}
}

const tenderColumns = `t.id, t.creator, t.title, t.description, t.category, t.ipfs_hash, t.min_bid,
	t.bidding_deadline, t.reveal_deadline, t.status, t.created_at,
	(SELECT COUNT(*) FROM bid_commitment c WHERE c.tender_id = t.id)`

func scanTender(row pgx.Row) (*models.Tender, error) {
	var t models.Tender
	t.MinBid = new(uint256.Int)
	err := row.Scan(
		&t.ID,
		&t.Creator,
		&t.Title,
		&t.Description,
		&t.Category,
		&t.ReferenceDocumentHash,
		t.MinBid,
		&t.BiddingDeadline,
		&t.RevealDeadline,
		&t.Status,
		&t.CreatedAt,
		&t.BidderCount)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTender сохраняет новый тендер и присваивает ему идентификатор.
func (r *PostgresTenderRepository) CreateTender(ctx context.Context, tender models.Tender) (*models.Tender, error) {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO tender (creator, title, description, category, ipfs_hash, min_bid, bidding_deadline, reveal_deadline, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		tender.Creator,
		tender.Title,
		tender.Description,
		int16(tender.Category),
		tender.ReferenceDocumentHash,
		tender.MinBid,
		tender.BiddingDeadline,
		tender.RevealDeadline,
		int16(tender.Status),
		tender.CreatedAt).Scan(&tender.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert tender: %w", err)
	}
	tender.BidderCount = 0
	return &tender, nil
}

// GetTender возвращает тендер по идентификатору.
func (r *PostgresTenderRepository) GetTender(ctx context.Context, tenderId uint64) (*models.Tender, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+tenderColumns+` FROM tender t WHERE t.id = $1`, tenderId)
	tender, err := scanTender(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NotFound("tender %d not found", tenderId)
	}
	if err != nil {
		return nil, err
	}
	return tender, nil
}

// ListTenders возвращает список тендеров.
func (r *PostgresTenderRepository) ListTenders(ctx context.Context, filter models.TenderFilter) ([]models.Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tender t`
	var filters []string
	var args []interface{}
	argIndex := 1

	if len(filter.Categories) > 0 {
		categories := make([]int64, 0, len(filter.Categories))
		for _, c := range filter.Categories {
			categories = append(categories, int64(c))
		}
		filters = append(filters, fmt.Sprintf("t.category = ANY($%d::smallint[])", argIndex))
		args = append(args, pq.Array(categories))
		argIndex++
	}

	if filter.Creator != "" {
		filters = append(filters, fmt.Sprintf("t.creator = $%d", argIndex))
		args = append(args, strings.ToLower(string(filter.Creator)))
		argIndex++
	}

	if len(filters) > 0 {
		query += " WHERE " + strings.Join(filters, " AND ")
	}

	query += fmt.Sprintf(" ORDER BY t.id DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenders []models.Tender
	for rows.Next() {
		tender, err := scanTender(rows)
		if err != nil {
			return nil, err
		}
		tenders = append(tenders, *tender)
	}
	return tenders, rows.Err()
}

// CancelTender переводит открытый тендер в Canceled.
func (r *PostgresTenderRepository) CancelTender(ctx context.Context, tenderId uint64) error {
	tag, err := r.DB.Exec(ctx, `UPDATE tender SET status = $1 WHERE id = $2 AND status = $3`,
		int16(models.StatusCanceled), tenderId, int16(models.StatusOpen))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return rejectTransition(ctx, r.DB, tenderId, models.ActionCancel)
	}
	return nil
}

// FinalizeTender в одной транзакции переводит тендер в Finalized и записывает победителя.
func (r *PostgresTenderRepository) FinalizeTender(ctx context.Context, tenderId uint64, winner *models.Winner) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE tender SET status = $1 WHERE id = $2 AND status = $3`,
		int16(models.StatusFinalized), tenderId, int16(models.StatusOpen))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return rejectTransition(ctx, tx, tenderId, models.ActionFinalize)
	}

	if winner != nil {
		_, err = tx.Exec(ctx, `INSERT INTO winner (tender_id, bidder, amount, selected_at) VALUES ($1, $2, $3, $4)`,
			tenderId, winner.Bidder, winner.Amount, winner.SelectedAt)
		if err != nil {
			return fmt.Errorf("failed to insert winner: %w", err)
		}
	}
	return tx.Commit(ctx)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// rejectTransition объясняет, почему тендер не удалось закрыть: его нет
// или он уже вышел из статуса Open.
func rejectTransition(ctx context.Context, q queryRower, tenderId uint64, action models.Action) error {
	var status int16
	err := q.QueryRow(ctx, `SELECT status FROM tender WHERE id = $1`, tenderId).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NotFound("tender %d not found", tenderId)
	}
	if err != nil {
		return err
	}
	return models.NewPhaseViolation(action, closedPhase(models.TenderStatus(status)))
}

// GetWinner возвращает победителя или nil, если он не выбран.
func (r *PostgresTenderRepository) GetWinner(ctx context.Context, tenderId uint64) (*models.Winner, error) {
	w := models.Winner{TenderID: tenderId, Amount: new(uint256.Int)}
	err := r.DB.QueryRow(ctx, `SELECT bidder, amount, selected_at FROM winner WHERE tender_id = $1`, tenderId).
		Scan(&w.Bidder, w.Amount, &w.SelectedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// SaveRating сохраняет оценку победителя и обновляет репутацию его компании.
func (r *PostgresTenderRepository) SaveRating(ctx context.Context, tenderId uint64, bidder models.Address, rating uint8, ratedAt int64) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `INSERT INTO bidder_rating (tender_id, bidder, rating, rated_at) VALUES ($1, $2, $3, $4)`,
		tenderId, bidder, int16(rating), ratedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyRated
	}
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO company (address, reputation_total, rating_count) VALUES ($1, $2, 1)
		ON CONFLICT (address) DO UPDATE
		SET reputation_total = company.reputation_total + EXCLUDED.reputation_total,
		    rating_count = company.rating_count + 1`,
		bidder, int64(rating))
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// HasRating сообщает, оценён ли уже победитель тендера.
func (r *PostgresTenderRepository) HasRating(ctx context.Context, tenderId uint64) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bidder_rating WHERE tender_id = $1)`, tenderId).Scan(&exists)
	return exists, err
}
