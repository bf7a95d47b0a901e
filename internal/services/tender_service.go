package services

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/senyabanana/sealed-tender/internal/events"
	"github.com/senyabanana/sealed-tender/internal/lifecycle"
	"github.com/senyabanana/sealed-tender/internal/models"
	"github.com/senyabanana/sealed-tender/internal/repository"
	"github.com/senyabanana/sealed-tender/internal/utils"
)

type TenderService struct {
	Repo   repository.TenderRepository
	Bids   repository.CommitmentRepository
	Events events.Publisher
	Logger *log.Logger
	Now    func() time.Time
}

// NewTenderService создаёт новый экземпляр TenderService.
func NewTenderService(repo repository.TenderRepository, bids repository.CommitmentRepository, publisher events.Publisher, logger *log.Logger) *TenderService {
	logger = loggerOrDefault(logger)
	return &TenderService{
		Repo:   repo,
		Bids:   bids,
		Events: publisherOrDefault(publisher, logger),
		Logger: logger,
		Now:    time.Now,
	}
}

// CreateTender публикует новый тендер; сроки отсчитываются от текущего момента.
func (s *TenderService) CreateTender(ctx context.Context, creator models.Address, req models.TenderRequest) (*models.Tender, error) {
	creator, err := models.ParseAddress(string(creator))
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if !req.Category.Valid() {
		return nil, models.InvalidInput("unknown category %d", req.Category)
	}
	if req.MinBid == nil {
		return nil, models.InvalidInput("min bid is required")
	}

	now := s.Now().Unix()
	if req.BiddingDuration > math.MaxInt64-now {
		return nil, models.InvalidInput("bidding duration %d is too large", req.BiddingDuration)
	}
	deadline := now + req.BiddingDuration
	if req.RevealDuration > math.MaxInt64-deadline {
		return nil, models.InvalidInput("reveal duration %d is too large", req.RevealDuration)
	}
	draft := models.Tender{
		Creator:               creator,
		Title:                 req.Title,
		Description:           req.Description,
		Category:              req.Category,
		ReferenceDocumentHash: req.ReferenceDocumentHash,
		MinBid:                req.MinBid,
		BiddingDeadline:       deadline,
		RevealDeadline:        deadline + req.RevealDuration,
		Status:                models.StatusOpen,
		CreatedAt:             now,
	}
	if err := draft.ValidateSchedule(); err != nil {
		return nil, err
	}
	tender, err := s.Repo.CreateTender(ctx, draft)
	if err != nil {
		return nil, err
	}

	s.Logger.Printf("tender %d created by %s", tender.ID, creator)
	publish(ctx, s.Events, s.Logger, models.EventTenderCreated, models.TenderCreated{
		TenderID:        tender.ID,
		Creator:         tender.Creator,
		Title:           tender.Title,
		Category:        tender.Category,
		BiddingDeadline: tender.BiddingDeadline,
		RevealDeadline:  tender.RevealDeadline,
	})
	return tender, nil
}

// FetchTenders получает список тендеров с фильтрами по категориям и автору.
func (s *TenderService) FetchTenders(ctx context.Context, limit, offset int, categories []string, creator string) ([]models.Tender, error) {
	filter := models.TenderFilter{Limit: limit, Offset: offset}
	for _, c := range categories {
		category, err := models.ParseCategory(c)
		if err != nil {
			return nil, err
		}
		filter.Categories = append(filter.Categories, category)
	}
	if creator != "" {
		addr, err := models.ParseAddress(creator)
		if err != nil {
			return nil, err
		}
		filter.Creator = addr
	}
	tenders, err := s.Repo.ListTenders(ctx, filter)
	if err != nil {
		return nil, err
	}
	if tenders == nil {
		tenders = []models.Tender{}
	}
	return tenders, nil
}

// GetTender возвращает тендер по идентификатору.
func (s *TenderService) GetTender(ctx context.Context, tenderId uint64) (*models.Tender, error) {
	return s.Repo.GetTender(ctx, tenderId)
}

// Snapshot собирает состояние тендера, нужное для проверки действий участника.
func (s *TenderService) Snapshot(ctx context.Context, tenderId uint64, actor models.Address) (lifecycle.Snapshot, error) {
	tender, err := s.Repo.GetTender(ctx, tenderId)
	if err != nil {
		return lifecycle.Snapshot{}, err
	}
	winner, err := s.Repo.GetWinner(ctx, tenderId)
	if err != nil {
		return lifecycle.Snapshot{}, err
	}
	rated, err := s.Repo.HasRating(ctx, tenderId)
	if err != nil {
		return lifecycle.Snapshot{}, err
	}
	return lifecycle.Snapshot{
		Tender:    tender,
		Now:       s.Now(),
		Actor:     actor,
		HasWinner: winner != nil,
		Rated:     rated,
	}, nil
}

// PhaseView возвращает производную фазу, допустимые действия и обратные отсчёты.
func (s *TenderService) PhaseView(ctx context.Context, tenderId uint64, actor models.Address) (lifecycle.View, error) {
	snap, err := s.Snapshot(ctx, tenderId, actor)
	if err != nil {
		return lifecycle.View{}, err
	}
	return lifecycle.Describe(snap)
}

// GetWinner возвращает победителя или nil, если он ещё не выбран.
func (s *TenderService) GetWinner(ctx context.Context, tenderId uint64) (*models.Winner, error) {
	if _, err := s.Repo.GetTender(ctx, tenderId); err != nil {
		return nil, err
	}
	return s.Repo.GetWinner(ctx, tenderId)
}

// HasRated сообщает, оценён ли победитель тендера.
func (s *TenderService) HasRated(ctx context.Context, tenderId uint64) (bool, error) {
	if _, err := s.Repo.GetTender(ctx, tenderId); err != nil {
		return false, err
	}
	return s.Repo.HasRating(ctx, tenderId)
}

// FinalizeTender выбирает победителя среди раскрытых ставок и закрывает тендер.
// Без подходящих ставок тендер закрывается без победителя.
func (s *TenderService) FinalizeTender(ctx context.Context, tenderId uint64, caller models.Address) (*models.Winner, error) {
	caller, err := models.ParseAddress(string(caller))
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx, tenderId, caller)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.Authorize(models.ActionFinalize, snap); err != nil {
		return nil, err
	}

	commitments, err := s.Bids.ListCommitments(ctx, tenderId)
	if err != nil {
		return nil, err
	}
	winner, _ := lifecycle.SelectWinner(snap.Tender.MinBid, commitments, snap.Now.Unix())
	if err := s.Repo.FinalizeTender(ctx, tenderId, winner); err != nil {
		return nil, err
	}

	if winner != nil {
		s.Logger.Printf("tender %d finalized, winner %s with %s", tenderId, winner.Bidder, winner.Amount.Dec())
	} else {
		s.Logger.Printf("tender %d finalized without a winner", tenderId)
	}
	publish(ctx, s.Events, s.Logger, models.EventTenderFinalized, models.TenderFinalized{TenderID: tenderId, Winner: winner})
	return winner, nil
}

// CancelTender отменяет открытый тендер; доступно только автору.
func (s *TenderService) CancelTender(ctx context.Context, tenderId uint64, caller models.Address) error {
	caller, err := models.ParseAddress(string(caller))
	if err != nil {
		return err
	}
	snap, err := s.Snapshot(ctx, tenderId, caller)
	if err != nil {
		return err
	}
	if err := lifecycle.Authorize(models.ActionCancel, snap); err != nil {
		return err
	}
	if err := s.Repo.CancelTender(ctx, tenderId); err != nil {
		return err
	}

	s.Logger.Printf("tender %d canceled by %s", tenderId, caller)
	publish(ctx, s.Events, s.Logger, models.EventTenderCanceled, models.TenderCanceled{TenderID: tenderId, By: caller})
	return nil
}

// RateWinner сохраняет оценку победителя от автора тендера.
func (s *TenderService) RateWinner(ctx context.Context, tenderId uint64, caller models.Address, rating uint8) error {
	if rating < 1 || rating > 5 {
		return models.InvalidInput("rating must be between 1 and 5, got %d", rating)
	}
	caller, err := models.ParseAddress(string(caller))
	if err != nil {
		return err
	}
	snap, err := s.Snapshot(ctx, tenderId, caller)
	if err != nil {
		return err
	}
	if err := lifecycle.Authorize(models.ActionRate, snap); err != nil {
		return err
	}

	winner, err := s.Repo.GetWinner(ctx, tenderId)
	if err != nil {
		return err
	}
	err = s.Repo.SaveRating(ctx, tenderId, winner.Bidder, rating, snap.Now.Unix())
	if errors.Is(err, repository.ErrAlreadyRated) {
		return models.NewPhaseViolation(models.ActionRate, models.PhaseFinalized)
	}
	if err != nil {
		return err
	}

	publish(ctx, s.Events, s.Logger, models.EventBidderRated, models.BidderRated{TenderID: tenderId, Bidder: winner.Bidder, Rating: rating})
	return nil
}
