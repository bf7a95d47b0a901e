package models

import (
	"strconv"

	"github.com/holiman/uint256"
)

type (
	TenderStatus uint8 // Статус тендера в леджере
	Category     uint8 // Категория тендера
)

// Порядок значений совпадает с перечислением TenderStatus в контракте.
const (
	StatusOpen          TenderStatus = iota // Тендер открыт
	StatusBiddingClosed                     // Приём ставок закрыт
	StatusRevealClosed                      // Раскрытие ставок закрыто
	StatusFinalized                         // Победитель выбран
	StatusCanceled                          // Тендер отменён
)

const (
	Construction Category = iota
	IT
	Logistics
	Research
	Healthcare
	Other
)

var statusLabels = [...]string{
	StatusOpen:          "Open",
	StatusBiddingClosed: "Bidding Closed",
	StatusRevealClosed:  "Reveal Closed",
	StatusFinalized:     "Finalized",
	StatusCanceled:      "Canceled",
}

var categoryLabels = [...]string{
	Construction: "Construction",
	IT:           "IT",
	Logistics:    "Logistics",
	Research:     "Research",
	Healthcare:   "Healthcare",
	Other:        "Other",
}

// Valid проверяет, что статус входит в перечисление.
func (s TenderStatus) Valid() bool {
	return int(s) < len(statusLabels)
}

// String возвращает человекочитаемое название статуса.
func (s TenderStatus) String() string {
	if !s.Valid() {
		return "Unknown"
	}
	return statusLabels[s]
}

// Valid проверяет, что категория входит в перечисление.
func (c Category) Valid() bool {
	return int(c) < len(categoryLabels)
}

func (c Category) String() string {
	if !c.Valid() {
		return "General"
	}
	return categoryLabels[c]
}

// ParseCategory разбирает категорию по названию или номеру.
func ParseCategory(s string) (Category, error) {
	for i, label := range categoryLabels {
		if label == s {
			return Category(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < len(categoryLabels) {
		return Category(n), nil
	}
	return 0, InvalidInput("unknown category %q", s)
}

// Tender представляет модель тендера в том виде, в каком его хранит леджер.
type Tender struct {
	ID                    uint64       `json:"id"`
	Creator               Address      `json:"creator"`
	Title                 string       `json:"title"`
	Description           string       `json:"description"`
	Category              Category     `json:"category"`
	ReferenceDocumentHash string       `json:"ipfsHash,omitempty"`
	MinBid                *uint256.Int `json:"minBid"`
	BiddingDeadline       int64        `json:"deadline"`
	RevealDeadline        int64        `json:"revealDeadline"`
	Status                TenderStatus `json:"status"`
	BidderCount           uint64       `json:"bidders"`
	CreatedAt             int64        `json:"createdAt"`
}

// Validate проверяет инварианты сохранённого тендера.
func (t *Tender) Validate() error {
	if t.ID == 0 {
		return InvalidInput("tender id must be positive")
	}
	return t.ValidateSchedule()
}

// ValidateSchedule проверяет статус, сроки и минимальную ставку.
// Не требует идентификатора, поэтому годится до сохранения.
func (t *Tender) ValidateSchedule() error {
	if !t.Status.Valid() {
		return InvalidInput("unknown tender status %d", t.Status)
	}
	if !(t.RevealDeadline > t.BiddingDeadline && t.BiddingDeadline > t.CreatedAt) {
		return InvalidInput("deadlines must satisfy revealDeadline > deadline > createdAt")
	}
	if t.MinBid == nil {
		return InvalidInput("min bid is missing")
	}
	return nil
}

// IsCreator сообщает, является ли адрес автором тендера.
func (t *Tender) IsCreator(a Address) bool {
	return t.Creator.Equal(a)
}

// TenderRequest представляет структуру запроса для публикации тендера.
type TenderRequest struct {
	Title                 string       `json:"title" validate:"required,max=100"`
	Description           string       `json:"description" validate:"required,max=500"`
	Category              Category     `json:"category" validate:"lte=5"`
	ReferenceDocumentHash string       `json:"ipfsHash" validate:"max=100"`
	BiddingDuration       int64        `json:"biddingDurationSec" validate:"gt=0"`
	RevealDuration        int64        `json:"revealDurationSec" validate:"gt=0"`
	MinBid                *uint256.Int `json:"minBid" validate:"required"`
}

// TenderFilter описывает параметры выборки списка тендеров.
type TenderFilter struct {
	Categories []Category
	Creator    Address
	Limit      int
	Offset     int
}
