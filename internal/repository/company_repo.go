package repository

import (
	"context"
	"errors"

	"github.com/senyabanana/sealed-tender/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CompanyRepository - интерфейс для работы с профилями компаний.
type CompanyRepository interface {
	RegisterCompany(ctx context.Context, profile models.CompanyProfile) (*models.CompanyProfile, error)
	GetCompany(ctx context.Context, address models.Address) (*models.CompanyProfile, error)
}

// PostgresCompanyRepository - реализация CompanyRepository для базы данных.
type PostgresCompanyRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresCompanyRepository создает новый экземпляр PostgresCompanyRepository.
func NewPostgresCompanyRepository(db *pgxpool.Pool) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{DB: db}
}

const companyColumns = `address, name, registration_id, contact_email, ipfs_hash, registered, reputation_total, rating_count`

// RegisterCompany создаёт или обновляет профиль, сохраняя накопленную репутацию.
func (r *PostgresCompanyRepository) RegisterCompany(ctx context.Context, profile models.CompanyProfile) (*models.CompanyProfile, error) {
	var p models.CompanyProfile
	err := r.DB.QueryRow(ctx, `
		INSERT INTO company (address, name, registration_id, contact_email, ipfs_hash, registered)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (address) DO UPDATE
		SET name = EXCLUDED.name,
		    registration_id = EXCLUDED.registration_id,
		    contact_email = EXCLUDED.contact_email,
		    ipfs_hash = EXCLUDED.ipfs_hash,
		    registered = TRUE
		RETURNING `+companyColumns,
		profile.Address,
		profile.Name,
		profile.RegistrationID,
		profile.ContactEmail,
		profile.IPFSHash).Scan(
		&p.Address,
		&p.Name,
		&p.RegistrationID,
		&p.ContactEmail,
		&p.IPFSHash,
		&p.Registered,
		&p.ReputationTotal,
		&p.RatingCount)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetCompany возвращает профиль; для неизвестного адреса - пустой незарегистрированный профиль.
func (r *PostgresCompanyRepository) GetCompany(ctx context.Context, address models.Address) (*models.CompanyProfile, error) {
	var p models.CompanyProfile
	err := r.DB.QueryRow(ctx, `SELECT `+companyColumns+` FROM company WHERE address = $1`, address).Scan(
		&p.Address,
		&p.Name,
		&p.RegistrationID,
		&p.ContactEmail,
		&p.IPFSHash,
		&p.Registered,
		&p.ReputationTotal,
		&p.RatingCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return &models.CompanyProfile{Address: address}, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
