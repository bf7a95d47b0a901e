// Package authority описывает границу между ядром и леджером, который
// хранит тендеры, ставки и победителей и проверяет раскрытия.
package authority

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/senyabanana/sealed-tender/internal/commitment"
	"github.com/senyabanana/sealed-tender/internal/models"
)

// TxResult - подтверждение принятой леджером операции.
type TxResult struct {
	TxID     string `json:"txId"`
	Action   string `json:"action"`
	TenderID uint64 `json:"tenderId"`
	At       int64  `json:"at"`
}

// Authority - внешний леджер. Каждая изменяющая операция выполняется не более
// одного раза и сериализуется на стороне леджера.
type Authority interface {
	CreateTender(ctx context.Context, creator models.Address, req models.TenderRequest) (*models.Tender, TxResult, error)
	SubmitCommitment(ctx context.Context, tenderID uint64, bidder models.Address, hash models.Hash) (TxResult, error)
	SubmitReveal(ctx context.Context, tenderID uint64, bidder models.Address, amount *uint256.Int, secret commitment.SecretKey) (TxResult, error)
	Finalize(ctx context.Context, tenderID uint64, caller models.Address) (TxResult, error)
	Cancel(ctx context.Context, tenderID uint64, caller models.Address) (TxResult, error)
	RateBidder(ctx context.Context, tenderID uint64, caller models.Address, rating uint8) (TxResult, error)

	GetTender(ctx context.Context, tenderID uint64) (*models.Tender, error)
	GetCommitmentStatus(ctx context.Context, tenderID uint64, bidder models.Address) (models.CommitmentStatus, error)
	// GetWinner возвращает nil без ошибки, если победитель не выбран.
	GetWinner(ctx context.Context, tenderID uint64) (*models.Winner, error)
	HasRated(ctx context.Context, tenderID uint64) (bool, error)
}
