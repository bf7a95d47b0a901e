package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/senyabanana/sealed-tender/internal/models"

	"github.com/holiman/uint256"
)

type commitmentKey struct {
	tenderId uint64
	bidder   models.Address
}

type rating struct {
	bidder models.Address
	value  uint8
}

// MemoryStore хранит тендеры, ставки и профили в памяти процесса.
// Реализует TenderRepository, CommitmentRepository и CompanyRepository.
type MemoryStore struct {
	mu          sync.RWMutex
	nextID      uint64
	tenders     map[uint64]models.Tender
	commitments map[commitmentKey]models.Commitment
	winners     map[uint64]models.Winner
	ratings     map[uint64]rating
	companies   map[models.Address]models.CompanyProfile
}

// NewMemoryStore создаёт пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tenders:     make(map[uint64]models.Tender),
		commitments: make(map[commitmentKey]models.Commitment),
		winners:     make(map[uint64]models.Winner),
		ratings:     make(map[uint64]rating),
		companies:   make(map[models.Address]models.CompanyProfile),
	}
}

func key(tenderId uint64, bidder models.Address) commitmentKey {
	return commitmentKey{tenderId: tenderId, bidder: models.Address(strings.ToLower(string(bidder)))}
}

func cloneAmount(v *uint256.Int) *uint256.Int {
	if v == nil {
		return nil
	}
	return new(uint256.Int).Set(v)
}

func (s *MemoryStore) bidderCount(tenderId uint64) uint64 {
	var n uint64
	for k := range s.commitments {
		if k.tenderId == tenderId {
			n++
		}
	}
	return n
}

func (s *MemoryStore) tenderCopy(t models.Tender) models.Tender {
	t.MinBid = cloneAmount(t.MinBid)
	t.BidderCount = s.bidderCount(t.ID)
	return t
}

// CreateTender сохраняет тендер и присваивает ему следующий идентификатор.
func (s *MemoryStore) CreateTender(_ context.Context, tender models.Tender) (*models.Tender, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	tender.ID = s.nextID
	tender.MinBid = cloneAmount(tender.MinBid)
	tender.BidderCount = 0
	s.tenders[tender.ID] = tender

	out := s.tenderCopy(tender)
	return &out, nil
}

// GetTender возвращает копию тендера.
func (s *MemoryStore) GetTender(_ context.Context, tenderId uint64) (*models.Tender, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tenders[tenderId]
	if !ok {
		return nil, models.NotFound("tender %d not found", tenderId)
	}
	out := s.tenderCopy(t)
	return &out, nil
}

// ListTenders возвращает тендеры от новых к старым с учётом фильтра.
func (s *MemoryStore) ListTenders(_ context.Context, filter models.TenderFilter) ([]models.Tender, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tenders []models.Tender
	for _, t := range s.tenders {
		if len(filter.Categories) > 0 && !containsCategory(filter.Categories, t.Category) {
			continue
		}
		if filter.Creator != "" && !t.Creator.Equal(filter.Creator) {
			continue
		}
		tenders = append(tenders, s.tenderCopy(t))
	}
	sort.Slice(tenders, func(i, j int) bool { return tenders[i].ID > tenders[j].ID })

	if filter.Offset >= len(tenders) {
		return nil, nil
	}
	tenders = tenders[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(tenders) {
		tenders = tenders[:filter.Limit]
	}
	return tenders, nil
}

func containsCategory(categories []models.Category, c models.Category) bool {
	for _, v := range categories {
		if v == c {
			return true
		}
	}
	return false
}

// CancelTender переводит открытый тендер в Canceled.
func (s *MemoryStore) CancelTender(_ context.Context, tenderId uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenders[tenderId]
	if !ok {
		return models.NotFound("tender %d not found", tenderId)
	}
	if t.Status != models.StatusOpen {
		return models.NewPhaseViolation(models.ActionCancel, closedPhase(t.Status))
	}
	t.Status = models.StatusCanceled
	s.tenders[tenderId] = t
	return nil
}

// FinalizeTender переводит открытый тендер в Finalized и записывает победителя.
func (s *MemoryStore) FinalizeTender(_ context.Context, tenderId uint64, winner *models.Winner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenders[tenderId]
	if !ok {
		return models.NotFound("tender %d not found", tenderId)
	}
	if t.Status != models.StatusOpen {
		return models.NewPhaseViolation(models.ActionFinalize, closedPhase(t.Status))
	}
	t.Status = models.StatusFinalized
	s.tenders[tenderId] = t
	if winner != nil {
		w := *winner
		w.TenderID = tenderId
		w.Amount = cloneAmount(winner.Amount)
		s.winners[tenderId] = w
	}
	return nil
}

// GetWinner возвращает победителя или nil, если он не выбран.
func (s *MemoryStore) GetWinner(_ context.Context, tenderId uint64) (*models.Winner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.winners[tenderId]
	if !ok {
		return nil, nil
	}
	w.Amount = cloneAmount(w.Amount)
	return &w, nil
}

// SaveRating сохраняет оценку и добавляет её к репутации компании победителя.
func (s *MemoryStore) SaveRating(_ context.Context, tenderId uint64, bidder models.Address, value uint8, _ int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ratings[tenderId]; ok {
		return ErrAlreadyRated
	}
	s.ratings[tenderId] = rating{bidder: bidder, value: value}

	addr := models.Address(strings.ToLower(string(bidder)))
	p, ok := s.companies[addr]
	if !ok {
		p = models.CompanyProfile{Address: addr}
	}
	p.ReputationTotal += uint64(value)
	p.RatingCount++
	s.companies[addr] = p
	return nil
}

// HasRating сообщает, оценён ли уже победитель тендера.
func (s *MemoryStore) HasRating(_ context.Context, tenderId uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.ratings[tenderId]
	return ok, nil
}

// CreateCommitment сохраняет закрытую ставку; вторая ставка того же участника отклоняется.
func (s *MemoryStore) CreateCommitment(_ context.Context, c models.Commitment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tenders[c.TenderID]; !ok {
		return models.NotFound("tender %d not found", c.TenderID)
	}
	k := key(c.TenderID, c.Bidder)
	if _, ok := s.commitments[k]; ok {
		return models.DuplicateCommitment(c.TenderID, c.Bidder)
	}
	c.Bidder = k.bidder
	c.Revealed = false
	c.RevealedAmount = nil
	c.RevealedAt = 0
	s.commitments[k] = c
	return nil
}

// GetCommitment возвращает копию ставки участника.
func (s *MemoryStore) GetCommitment(_ context.Context, tenderId uint64, bidder models.Address) (*models.Commitment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.commitments[key(tenderId, bidder)]
	if !ok {
		return nil, models.NotFound("no commitment from %s on tender %d", bidder, tenderId)
	}
	c.RevealedAmount = cloneAmount(c.RevealedAmount)
	return &c, nil
}

// MarkRevealed отмечает ставку раскрытой.
func (s *MemoryStore) MarkRevealed(_ context.Context, tenderId uint64, bidder models.Address, amount *uint256.Int, revealedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(tenderId, bidder)
	c, ok := s.commitments[k]
	if !ok {
		return models.NotFound("no commitment from %s on tender %d", bidder, tenderId)
	}
	if c.Revealed {
		return models.AlreadyRevealed(tenderId, bidder)
	}
	c.Revealed = true
	c.RevealedAmount = cloneAmount(amount)
	c.RevealedAt = revealedAt
	s.commitments[k] = c
	return nil
}

// ListCommitments возвращает ставки по тендеру в порядке подачи.
func (s *MemoryStore) ListCommitments(_ context.Context, tenderId uint64) ([]models.Commitment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var commitments []models.Commitment
	for k, c := range s.commitments {
		if k.tenderId != tenderId {
			continue
		}
		c.RevealedAmount = cloneAmount(c.RevealedAmount)
		commitments = append(commitments, c)
	}
	sort.Slice(commitments, func(i, j int) bool {
		if commitments[i].CommittedAt != commitments[j].CommittedAt {
			return commitments[i].CommittedAt < commitments[j].CommittedAt
		}
		return commitments[i].Bidder < commitments[j].Bidder
	})
	return commitments, nil
}

// RegisterCompany создаёт или обновляет профиль, сохраняя накопленную репутацию.
func (s *MemoryStore) RegisterCompany(_ context.Context, profile models.CompanyProfile) (*models.CompanyProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	addr := models.Address(strings.ToLower(string(profile.Address)))
	p := s.companies[addr]
	p.Address = addr
	p.Name = profile.Name
	p.RegistrationID = profile.RegistrationID
	p.ContactEmail = profile.ContactEmail
	p.IPFSHash = profile.IPFSHash
	p.Registered = true
	s.companies[addr] = p
	return &p, nil
}

// GetCompany возвращает профиль; для неизвестного адреса - пустой незарегистрированный профиль.
func (s *MemoryStore) GetCompany(_ context.Context, address models.Address) (*models.CompanyProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	addr := models.Address(strings.ToLower(string(address)))
	p, ok := s.companies[addr]
	if !ok {
		return &models.CompanyProfile{Address: addr}, nil
	}
	return &p, nil
}

var (
	_ TenderRepository     = (*MemoryStore)(nil)
	_ CommitmentRepository = (*MemoryStore)(nil)
	_ CompanyRepository    = (*MemoryStore)(nil)
	_ TenderRepository     = (*PostgresTenderRepository)(nil)
	_ CommitmentRepository = (*PostgresCommitmentRepository)(nil)
	_ CompanyRepository    = (*PostgresCompanyRepository)(nil)
)
