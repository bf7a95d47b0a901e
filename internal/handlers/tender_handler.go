package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/senyabanana/sealed-tender/internal/authority"
	"github.com/senyabanana/sealed-tender/internal/models"
	"github.com/senyabanana/sealed-tender/internal/services"
	"github.com/senyabanana/sealed-tender/internal/utils"

	"github.com/go-chi/render"
)

// TenderHandler - структура для обработки HTTP-запросов.
type TenderHandler struct {
	Ledger  *services.Ledger
	Logger  *log.Logger
	Timeout time.Duration
}

// NewTenderHandler создаёт новый экземпляр TenderHandler.
func NewTenderHandler(ledger *services.Ledger, logger *log.Logger, timeout time.Duration) *TenderHandler {
	return &TenderHandler{
		Ledger:  ledger,
		Logger:  logger,
		Timeout: timeout,
	}
}

type createTenderResponse struct {
	Tender *models.Tender     `json:"tender"`
	Tx     authority.TxResult `json:"tx"`
}

type winnerResponse struct {
	TenderID uint64         `json:"tenderId"`
	Winner   *models.Winner `json:"winner"`
}

type finalizeResponse struct {
	Tx     authority.TxResult `json:"tx"`
	Winner *models.Winner     `json:"winner"`
}

// GetTenders обрабатывает запросы для получения списка тендеров.
func (h *TenderHandler) GetTenders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	query := r.URL.Query()
	limit, offset, err := utils.ParseLimitOffset(query.Get("limit"), query.Get("offset"))
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}

	tenders, err := h.Ledger.Tenders.FetchTenders(ctx, limit, offset, query["category"], query.Get("creator"))
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}
	render.JSON(w, r, tenders)
}

// CreateTender обрабатывает запросы для публикации тендера.
func (h *TenderHandler) CreateTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	creator, err := utils.CallerAddress(r)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}

	var req models.TenderRequest
	if err := decodeRequest(r, &req); err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}

	tender, tx, err := h.Ledger.CreateTender(ctx, creator, req)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}
	render.JSON(w, r, createTenderResponse{Tender: tender, Tx: tx})
}

// GetTender обрабатывает запросы для получения тендера.
func (h *TenderHandler) GetTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderId, err := utils.TenderID(r)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}

	tender, err := h.Ledger.GetTender(ctx, tenderId)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}
	render.JSON(w, r, tender)
}

// GetTenderPhase возвращает производную фазу и действия, доступные вызывающему.
// Без заголовка X-Caller-Address действия считаются для анонимного участника.
func (h *TenderHandler) GetTenderPhase(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderId, err := utils.TenderID(r)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}

	var actor models.Address
	if r.Header.Get(utils.CallerHeader) != "" {
		if actor, err = utils.CallerAddress(r); err != nil {
			utils.SendError(w, r, h.Logger, err)
			return
		}
	}

	view, err := h.Ledger.Tenders.PhaseView(ctx, tenderId, actor)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}
	render.JSON(w, r, view)
}

// GetWinner обрабатывает запросы для получения победителя тендера.
func (h *TenderHandler) GetWinner(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderId, err := utils.TenderID(r)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}

	winner, err := h.Ledger.GetWinner(ctx, tenderId)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}
	render.JSON(w, r, winnerResponse{TenderID: tenderId, Winner: winner})
}

// FinalizeTender закрывает тендер и выбирает победителя.
func (h *TenderHandler) FinalizeTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderId, caller, ok := h.tenderAndCaller(w, r)
	if !ok {
		return
	}

	tx, err := h.Ledger.Finalize(ctx, tenderId, caller)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}
	winner, err := h.Ledger.GetWinner(ctx, tenderId)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}
	render.JSON(w, r, finalizeResponse{Tx: tx, Winner: winner})
}

// CancelTender отменяет тендер по запросу автора.
func (h *TenderHandler) CancelTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderId, caller, ok := h.tenderAndCaller(w, r)
	if !ok {
		return
	}

	tx, err := h.Ledger.Cancel(ctx, tenderId, caller)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}
	render.JSON(w, r, tx)
}

// RateWinner сохраняет оценку победителя.
func (h *TenderHandler) RateWinner(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderId, caller, ok := h.tenderAndCaller(w, r)
	if !ok {
		return
	}

	var req models.RateRequest
	if err := decodeRequest(r, &req); err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}

	tx, err := h.Ledger.RateBidder(ctx, tenderId, caller, req.Rating)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}
	render.JSON(w, r, tx)
}

func (h *TenderHandler) tenderAndCaller(w http.ResponseWriter, r *http.Request) (uint64, models.Address, bool) {
	tenderId, err := utils.TenderID(r)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return 0, "", false
	}
	caller, err := utils.CallerAddress(r)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return 0, "", false
	}
	return tenderId, caller, true
}
