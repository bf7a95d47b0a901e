package services

import (
	"context"
	"log"
	"time"

	"github.com/senyabanana/sealed-tender/internal/commitment"
	"github.com/senyabanana/sealed-tender/internal/events"
	"github.com/senyabanana/sealed-tender/internal/lifecycle"
	"github.com/senyabanana/sealed-tender/internal/models"
	"github.com/senyabanana/sealed-tender/internal/repository"

	"github.com/holiman/uint256"
)

type BidService struct {
	Repo    repository.CommitmentRepository
	Tenders repository.TenderRepository
	Events  events.Publisher
	Logger  *log.Logger
	Now     func() time.Time
}

// NewBidService создает новый экземпляр BidService.
func NewBidService(repo repository.CommitmentRepository, tenders repository.TenderRepository, publisher events.Publisher, logger *log.Logger) *BidService {
	logger = loggerOrDefault(logger)
	return &BidService{
		Repo:    repo,
		Tenders: tenders,
		Events:  publisherOrDefault(publisher, logger),
		Logger:  logger,
		Now:     time.Now,
	}
}

// SubmitCommitment принимает закрытую ставку в фазе Bidding.
func (s *BidService) SubmitCommitment(ctx context.Context, tenderId uint64, bidder models.Address, hash models.Hash) error {
	bidder, err := models.ParseAddress(string(bidder))
	if err != nil {
		return err
	}
	if hash.IsZero() {
		return models.InvalidInput("commitment must not be zero")
	}
	tender, err := s.Tenders.GetTender(ctx, tenderId)
	if err != nil {
		return err
	}
	now := s.Now()
	snap := lifecycle.Snapshot{Tender: tender, Now: now, Actor: bidder}
	if err := lifecycle.Authorize(models.ActionSubmitCommitment, snap); err != nil {
		return err
	}

	err = s.Repo.CreateCommitment(ctx, models.Commitment{
		TenderID:    tenderId,
		Bidder:      bidder,
		Hash:        hash,
		CommittedAt: now.Unix(),
	})
	if err != nil {
		return err
	}

	publish(ctx, s.Events, s.Logger, models.EventBidCommitted, models.BidCommitted{TenderID: tenderId, Bidder: bidder, Commitment: hash})
	return nil
}

// SubmitReveal проверяет раскрытие по сохранённой ставке. Ставка помечается
// раскрытой только если пара (сумма, секрет) даёт тот же хеш.
func (s *BidService) SubmitReveal(ctx context.Context, tenderId uint64, bidder models.Address, amount *uint256.Int, secret commitment.SecretKey) error {
	bidder, err := models.ParseAddress(string(bidder))
	if err != nil {
		return err
	}
	if amount == nil {
		return models.InvalidInput("amount is required")
	}
	tender, err := s.Tenders.GetTender(ctx, tenderId)
	if err != nil {
		return err
	}
	now := s.Now()
	snap := lifecycle.Snapshot{Tender: tender, Now: now, Actor: bidder}
	if err := lifecycle.Authorize(models.ActionReveal, snap); err != nil {
		return err
	}

	stored, err := s.Repo.GetCommitment(ctx, tenderId, bidder)
	if err != nil {
		return err
	}
	if stored.Revealed {
		return models.AlreadyRevealed(tenderId, bidder)
	}
	if !commitment.Verify(amount, secret, stored.Hash) {
		s.Logger.Printf("reveal from %s on tender %d does not match its commitment", bidder, tenderId)
		return models.HashMismatch(tenderId, bidder)
	}
	if err := s.Repo.MarkRevealed(ctx, tenderId, bidder, amount, now.Unix()); err != nil {
		return err
	}

	publish(ctx, s.Events, s.Logger, models.EventBidRevealed, models.BidRevealed{TenderID: tenderId, Bidder: bidder, Amount: amount.Dec()})
	return nil
}

// CommitmentStatus возвращает состояние ставки участника.
func (s *BidService) CommitmentStatus(ctx context.Context, tenderId uint64, bidder models.Address) (models.CommitmentStatus, error) {
	bidder, err := models.ParseAddress(string(bidder))
	if err != nil {
		return models.CommitmentStatus{}, err
	}
	if _, err := s.Tenders.GetTender(ctx, tenderId); err != nil {
		return models.CommitmentStatus{}, err
	}
	c, err := s.Repo.GetCommitment(ctx, tenderId, bidder)
	if err != nil {
		return models.CommitmentStatus{}, err
	}
	return models.CommitmentStatus{Revealed: c.Revealed, Amount: c.RevealedAmount}, nil
}
