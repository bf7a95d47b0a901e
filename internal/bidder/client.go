// Package bidder реализует сторону участника: подачу, раскрытие и
// отслеживание закрытых ставок поверх внешнего леджера.
package bidder

import (
	"context"
	"fmt"
	"time"

	"github.com/senyabanana/sealed-tender/internal/authority"
	"github.com/senyabanana/sealed-tender/internal/commitment"
	"github.com/senyabanana/sealed-tender/internal/lifecycle"
	"github.com/senyabanana/sealed-tender/internal/models"

	"github.com/holiman/uint256"
)

// Client проверяет действия локально и только затем отправляет их в леджер.
type Client struct {
	Authority authority.Authority
	Secrets   *commitment.Generator
	Now       func() time.Time
}

// NewClient создаёт клиента с системными часами и crypto/rand.
func NewClient(a authority.Authority) *Client {
	return &Client{
		Authority: a,
		Secrets:   commitment.NewGenerator(nil),
		Now:       time.Now,
	}
}

// SealedBid - всё, что участник должен сохранить до фазы раскрытия.
type SealedBid struct {
	TenderID uint64               `json:"tenderId"`
	Bidder   models.Address       `json:"bidder"`
	Amount   *uint256.Int         `json:"amount"`
	Secret   commitment.SecretKey `json:"secret"`
	Hash     models.Hash          `json:"commitment"`
	Tx       authority.TxResult   `json:"tx"`
}

// TenderView - тендер вместе с производной фазой и победителем.
type TenderView struct {
	Tender *models.Tender `json:"tender"`
	lifecycle.View
	Winner *models.Winner `json:"winner,omitempty"`
}

// fromAuthority пропускает типизированные ошибки леджера, а прочие сбои
// превращает в AuthorityUnavailable. Повторов нет.
func fromAuthority(err error) error {
	if err == nil || models.KindOf(err) != 0 {
		return err
	}
	return models.AuthorityUnavailable(err)
}

func (c *Client) snapshot(ctx context.Context, tenderID uint64, actor models.Address, withOutcome bool) (lifecycle.Snapshot, error) {
	tender, err := c.Authority.GetTender(ctx, tenderID)
	if err != nil {
		return lifecycle.Snapshot{}, fromAuthority(err)
	}
	snap := lifecycle.Snapshot{Tender: tender, Now: c.Now(), Actor: actor}
	if !withOutcome {
		return snap, nil
	}
	winner, err := c.Authority.GetWinner(ctx, tenderID)
	if err != nil {
		return lifecycle.Snapshot{}, fromAuthority(err)
	}
	rated, err := c.Authority.HasRated(ctx, tenderID)
	if err != nil {
		return lifecycle.Snapshot{}, fromAuthority(err)
	}
	snap.HasWinner = winner != nil
	snap.Rated = rated
	return snap, nil
}

// PlaceBid запечатывает сумму новым секретом и отправляет хеш в леджер.
// Сумма ниже минимальной ставки отклоняется: такая ставка не может победить.
func (c *Client) PlaceBid(ctx context.Context, tenderID uint64, bidder models.Address, amountText string) (*SealedBid, error) {
	bidder, err := models.ParseAddress(string(bidder))
	if err != nil {
		return nil, err
	}
	amount, err := commitment.ParseAmount(amountText)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, models.InvalidInput("bid amount must be positive")
	}

	snap, err := c.snapshot(ctx, tenderID, bidder, false)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.Authorize(models.ActionSubmitCommitment, snap); err != nil {
		return nil, err
	}
	if snap.Tender.MinBid != nil && amount.Lt(snap.Tender.MinBid) {
		return nil, models.InvalidInput("bid %s is below the minimum bid %s", amount.Dec(), snap.Tender.MinBid.Dec())
	}

	secret, err := c.Secrets.SecretKey()
	if err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}
	hash, err := commitment.Commit(amount, secret)
	if err != nil {
		return nil, err
	}

	tx, err := c.Authority.SubmitCommitment(ctx, tenderID, bidder, hash)
	if err != nil {
		return nil, fromAuthority(err)
	}
	return &SealedBid{
		TenderID: tenderID,
		Bidder:   bidder,
		Amount:   amount,
		Secret:   secret,
		Hash:     hash,
		Tx:       tx,
	}, nil
}

// RevealBid раскрывает ранее поданную ставку.
func (c *Client) RevealBid(ctx context.Context, tenderID uint64, bidder models.Address, amountText, secretText string) (authority.TxResult, error) {
	bidder, err := models.ParseAddress(string(bidder))
	if err != nil {
		return authority.TxResult{}, err
	}
	amount, err := commitment.ParseAmount(amountText)
	if err != nil {
		return authority.TxResult{}, err
	}
	secret, err := commitment.ParseSecretKey(secretText)
	if err != nil {
		return authority.TxResult{}, err
	}

	snap, err := c.snapshot(ctx, tenderID, bidder, false)
	if err != nil {
		return authority.TxResult{}, err
	}
	if err := lifecycle.Authorize(models.ActionReveal, snap); err != nil {
		return authority.TxResult{}, err
	}

	status, err := c.Authority.GetCommitmentStatus(ctx, tenderID, bidder)
	if err != nil {
		return authority.TxResult{}, fromAuthority(err)
	}
	if status.Revealed {
		return authority.TxResult{}, models.AlreadyRevealed(tenderID, bidder)
	}

	tx, err := c.Authority.SubmitReveal(ctx, tenderID, bidder, amount, secret)
	return tx, fromAuthority(err)
}

// Reveal раскрывает ставку, сохранённую после PlaceBid.
func (c *Client) Reveal(ctx context.Context, bid *SealedBid) (authority.TxResult, error) {
	if bid == nil || bid.Amount == nil {
		return authority.TxResult{}, models.InvalidInput("sealed bid is required")
	}
	return c.RevealBid(ctx, bid.TenderID, bid.Bidder, bid.Amount.Dec(), bid.Secret.String())
}

// Finalize закрывает тендер после окончания раскрытия.
func (c *Client) Finalize(ctx context.Context, tenderID uint64, caller models.Address) (authority.TxResult, error) {
	caller, err := models.ParseAddress(string(caller))
	if err != nil {
		return authority.TxResult{}, err
	}
	snap, err := c.snapshot(ctx, tenderID, caller, false)
	if err != nil {
		return authority.TxResult{}, err
	}
	if err := lifecycle.Authorize(models.ActionFinalize, snap); err != nil {
		return authority.TxResult{}, err
	}
	tx, err := c.Authority.Finalize(ctx, tenderID, caller)
	return tx, fromAuthority(err)
}

// Cancel отменяет открытый тендер от имени автора.
func (c *Client) Cancel(ctx context.Context, tenderID uint64, caller models.Address) (authority.TxResult, error) {
	caller, err := models.ParseAddress(string(caller))
	if err != nil {
		return authority.TxResult{}, err
	}
	snap, err := c.snapshot(ctx, tenderID, caller, false)
	if err != nil {
		return authority.TxResult{}, err
	}
	if err := lifecycle.Authorize(models.ActionCancel, snap); err != nil {
		return authority.TxResult{}, err
	}
	tx, err := c.Authority.Cancel(ctx, tenderID, caller)
	return tx, fromAuthority(err)
}

// Rate оценивает победителя завершённого тендера.
func (c *Client) Rate(ctx context.Context, tenderID uint64, caller models.Address, rating uint8) (authority.TxResult, error) {
	if rating < 1 || rating > 5 {
		return authority.TxResult{}, models.InvalidInput("rating must be between 1 and 5, got %d", rating)
	}
	caller, err := models.ParseAddress(string(caller))
	if err != nil {
		return authority.TxResult{}, err
	}
	snap, err := c.snapshot(ctx, tenderID, caller, true)
	if err != nil {
		return authority.TxResult{}, err
	}
	if err := lifecycle.Authorize(models.ActionRate, snap); err != nil {
		return authority.TxResult{}, err
	}
	tx, err := c.Authority.RateBidder(ctx, tenderID, caller, rating)
	return tx, fromAuthority(err)
}

// View собирает состояние тендера для участника actor.
func (c *Client) View(ctx context.Context, tenderID uint64, actor models.Address) (*TenderView, error) {
	snap, err := c.snapshot(ctx, tenderID, actor, true)
	if err != nil {
		return nil, err
	}
	view, err := lifecycle.Describe(snap)
	if err != nil {
		return nil, err
	}
	out := &TenderView{Tender: snap.Tender, View: view}
	if snap.HasWinner {
		winner, err := c.Authority.GetWinner(ctx, tenderID)
		if err != nil {
			return nil, fromAuthority(err)
		}
		out.Winner = winner
	}
	return out, nil
}

// PreviewWinner показывает, кого выберет леджер по уже раскрытым ставкам.
func (c *Client) PreviewWinner(tender *models.Tender, commitments []models.Commitment) (*models.Winner, bool) {
	if tender == nil {
		return nil, false
	}
	return lifecycle.SelectWinner(tender.MinBid, commitments, c.Now().Unix())
}
