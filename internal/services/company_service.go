package services

import (
	"context"

	"github.com/senyabanana/sealed-tender/internal/models"
	"github.com/senyabanana/sealed-tender/internal/repository"
	"github.com/senyabanana/sealed-tender/internal/utils"
)

type CompanyService struct {
	Repo repository.CompanyRepository
}

// NewCompanyService создает новый экземпляр CompanyService.
func NewCompanyService(repo repository.CompanyRepository) *CompanyService {
	return &CompanyService{Repo: repo}
}

// RegisterCompany регистрирует или обновляет профиль компании по адресу.
func (s *CompanyService) RegisterCompany(ctx context.Context, address string, req models.CompanyRequest) (*models.CompanyProfile, error) {
	addr, err := models.ParseAddress(address)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.Repo.RegisterCompany(ctx, models.CompanyProfile{
		Address:        addr,
		Name:           req.Name,
		RegistrationID: req.RegistrationID,
		ContactEmail:   req.ContactEmail,
		IPFSHash:       req.IPFSHash,
	})
}

// GetCompany возвращает профиль компании.
func (s *CompanyService) GetCompany(ctx context.Context, address string) (*models.CompanyProfile, error) {
	addr, err := models.ParseAddress(address)
	if err != nil {
		return nil, err
	}
	return s.Repo.GetCompany(ctx, addr)
}
