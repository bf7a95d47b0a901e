package models

import "github.com/holiman/uint256"

// Commitment представляет закрытую ставку участника по тендеру.
type Commitment struct {
	TenderID       uint64       `json:"tenderId"`
	Bidder         Address      `json:"bidder"`
	Hash           Hash         `json:"commitment"`
	Revealed       bool         `json:"revealed"`
	RevealedAmount *uint256.Int `json:"amount,omitempty"`
	CommittedAt    int64        `json:"committedAt"`
	RevealedAt     int64        `json:"revealedAt,omitempty"`
}

// CommitmentStatus - то, что леджер отдаёт по ставке участника.
type CommitmentStatus struct {
	Revealed bool         `json:"revealed"`
	Amount   *uint256.Int `json:"amount,omitempty"`
}

// Winner представляет выбранного победителя тендера.
type Winner struct {
	TenderID   uint64       `json:"tenderId"`
	Bidder     Address      `json:"bidder"`
	Amount     *uint256.Int `json:"amount"`
	SelectedAt int64        `json:"selectedAt"`
}

// CommitRequest представляет структуру запроса на подачу закрытой ставки.
type CommitRequest struct {
	Commitment string `json:"commitment" validate:"required"`
}

// RevealRequest представляет структуру запроса на раскрытие ставки.
type RevealRequest struct {
	Amount string `json:"amount" validate:"required,numeric"`
	Secret string `json:"secret" validate:"required"`
}

// RateRequest представляет оценку победителя автором тендера.
type RateRequest struct {
	Rating uint8 `json:"rating" validate:"min=1,max=5"`
}
