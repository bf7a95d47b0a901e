package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/senyabanana/sealed-tender/internal/models"
	"github.com/senyabanana/sealed-tender/internal/services"
	"github.com/senyabanana/sealed-tender/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// CompanyHandler - структура для обработки HTTP-запросов по профилям компаний.
type CompanyHandler struct {
	Service *services.CompanyService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewCompanyHandler создает новый экземпляр CompanyHandler.
func NewCompanyHandler(service *services.CompanyService, logger *log.Logger, timeout time.Duration) *CompanyHandler {
	return &CompanyHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// RegisterCompany регистрирует профиль компании вызывающего.
func (h *CompanyHandler) RegisterCompany(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	caller, err := utils.CallerAddress(r)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}

	var req models.CompanyRequest
	if err := decodeRequest(r, &req); err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}

	profile, err := h.Service.RegisterCompany(ctx, string(caller), req)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}
	render.JSON(w, r, profile)
}

// GetCompany возвращает профиль компании по адресу.
func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	profile, err := h.Service.GetCompany(ctx, chi.URLParam(r, "address"))
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}
	render.JSON(w, r, profile)
}
