package services

import (
	"context"
	"sync"

	"github.com/senyabanana/sealed-tender/internal/authority"
	"github.com/senyabanana/sealed-tender/internal/commitment"
	"github.com/senyabanana/sealed-tender/internal/models"

	"github.com/google/uuid"
	"github.com/holiman/uint256"
)

const actionCreateTender = "create-tender"

// Ledger - доверенный сервер, выполняющий роль леджера. Изменяющие операции
// выполняются строго по одной.
type Ledger struct {
	mu      sync.RWMutex
	Tenders *TenderService
	Bids    *BidService
}

var _ authority.Authority = (*Ledger)(nil)

// NewLedger создаёт Ledger поверх сервисов тендеров и ставок.
func NewLedger(tenders *TenderService, bids *BidService) *Ledger {
	return &Ledger{Tenders: tenders, Bids: bids}
}

func (l *Ledger) receipt(action string, tenderId uint64) authority.TxResult {
	return authority.TxResult{
		TxID:     uuid.NewString(),
		Action:   action,
		TenderID: tenderId,
		At:       l.Tenders.Now().Unix(),
	}
}

func (l *Ledger) CreateTender(ctx context.Context, creator models.Address, req models.TenderRequest) (*models.Tender, authority.TxResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tender, err := l.Tenders.CreateTender(ctx, creator, req)
	if err != nil {
		return nil, authority.TxResult{}, err
	}
	return tender, l.receipt(actionCreateTender, tender.ID), nil
}

func (l *Ledger) SubmitCommitment(ctx context.Context, tenderId uint64, bidder models.Address, hash models.Hash) (authority.TxResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.Bids.SubmitCommitment(ctx, tenderId, bidder, hash); err != nil {
		return authority.TxResult{}, err
	}
	return l.receipt(models.ActionSubmitCommitment.String(), tenderId), nil
}

func (l *Ledger) SubmitReveal(ctx context.Context, tenderId uint64, bidder models.Address, amount *uint256.Int, secret commitment.SecretKey) (authority.TxResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.Bids.SubmitReveal(ctx, tenderId, bidder, amount, secret); err != nil {
		return authority.TxResult{}, err
	}
	return l.receipt(models.ActionReveal.String(), tenderId), nil
}

func (l *Ledger) Finalize(ctx context.Context, tenderId uint64, caller models.Address) (authority.TxResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.Tenders.FinalizeTender(ctx, tenderId, caller); err != nil {
		return authority.TxResult{}, err
	}
	return l.receipt(models.ActionFinalize.String(), tenderId), nil
}

func (l *Ledger) Cancel(ctx context.Context, tenderId uint64, caller models.Address) (authority.TxResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.Tenders.CancelTender(ctx, tenderId, caller); err != nil {
		return authority.TxResult{}, err
	}
	return l.receipt(models.ActionCancel.String(), tenderId), nil
}

func (l *Ledger) RateBidder(ctx context.Context, tenderId uint64, caller models.Address, rating uint8) (authority.TxResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.Tenders.RateWinner(ctx, tenderId, caller, rating); err != nil {
		return authority.TxResult{}, err
	}
	return l.receipt(models.ActionRate.String(), tenderId), nil
}

func (l *Ledger) GetTender(ctx context.Context, tenderId uint64) (*models.Tender, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.Tenders.GetTender(ctx, tenderId)
}

func (l *Ledger) GetCommitmentStatus(ctx context.Context, tenderId uint64, bidder models.Address) (models.CommitmentStatus, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.Bids.CommitmentStatus(ctx, tenderId, bidder)
}

func (l *Ledger) GetWinner(ctx context.Context, tenderId uint64) (*models.Winner, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.Tenders.GetWinner(ctx, tenderId)
}

func (l *Ledger) HasRated(ctx context.Context, tenderId uint64) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.Tenders.HasRated(ctx, tenderId)
}
