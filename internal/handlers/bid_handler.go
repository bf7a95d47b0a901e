package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/senyabanana/sealed-tender/internal/commitment"
	"github.com/senyabanana/sealed-tender/internal/models"
	"github.com/senyabanana/sealed-tender/internal/services"
	"github.com/senyabanana/sealed-tender/internal/utils"

	"github.com/go-chi/render"
)

// BidHandler - структура для обработки HTTP-запросов.
type BidHandler struct {
	Ledger  *services.Ledger
	Logger  *log.Logger
	Timeout time.Duration
}

// NewBidHandler создает новый экземпляр BidHandler.
func NewBidHandler(ledger *services.Ledger, logger *log.Logger, timeout time.Duration) *BidHandler {
	return &BidHandler{
		Ledger:  ledger,
		Logger:  logger,
		Timeout: timeout,
	}
}

// CommitBid принимает хеш закрытой ставки.
func (h *BidHandler) CommitBid(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderId, err := utils.TenderID(r)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}
	bidder, err := utils.CallerAddress(r)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}

	var req models.CommitRequest
	if err := decodeRequest(r, &req); err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}
	hash, err := models.ParseHash(req.Commitment)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}

	tx, err := h.Ledger.SubmitCommitment(ctx, tenderId, bidder, hash)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}
	render.JSON(w, r, tx)
}

// RevealBid раскрывает сумму и секрет ранее поданной ставки.
func (h *BidHandler) RevealBid(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderId, err := utils.TenderID(r)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}
	bidder, err := utils.CallerAddress(r)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}

	var req models.RevealRequest
	if err := decodeRequest(r, &req); err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}
	amount, err := commitment.ParseAmount(req.Amount)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}
	secret, err := commitment.ParseSecretKey(req.Secret)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}

	tx, err := h.Ledger.SubmitReveal(ctx, tenderId, bidder, amount, secret)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}
	render.JSON(w, r, tx)
}

// GetBidStatus возвращает состояние ставки участника из параметра bidder
// или, если он не задан, из заголовка X-Caller-Address.
func (h *BidHandler) GetBidStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderId, err := utils.TenderID(r)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}

	bidder := models.Address(r.URL.Query().Get("bidder"))
	if bidder == "" {
		if bidder, err = utils.CallerAddress(r); err != nil {
			utils.SendError(w, r, h.Logger, err)
			return
		}
	}

	status, err := h.Ledger.GetCommitmentStatus(ctx, tenderId, bidder)
	if err != nil {
		utils.SendError(w, r, h.Logger, err)
		return
	}
	render.JSON(w, r, status)
}
