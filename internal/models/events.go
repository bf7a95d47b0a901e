package models

// Ключи маршрутизации событий жизненного цикла.
const (
	EventTenderCreated   = "tender.created"
	EventBidCommitted    = "bid.committed"
	EventBidRevealed     = "bid.revealed"
	EventTenderFinalized = "tender.finalized"
	EventTenderCanceled  = "tender.canceled"
	EventBidderRated     = "bidder.rated"
)

type TenderCreated struct {
	TenderID        uint64   `json:"tenderId"`
	Creator         Address  `json:"creator"`
	Title           string   `json:"title"`
	Category        Category `json:"category"`
	BiddingDeadline int64    `json:"deadline"`
	RevealDeadline  int64    `json:"revealDeadline"`
}

// BidCommitted никогда не содержит сумму: до раскрытия она скрыта.
type BidCommitted struct {
	TenderID   uint64  `json:"tenderId"`
	Bidder     Address `json:"bidder"`
	Commitment Hash    `json:"commitment"`
}

type BidRevealed struct {
	TenderID uint64  `json:"tenderId"`
	Bidder   Address `json:"bidder"`
	Amount   string  `json:"amount"`
}

type TenderFinalized struct {
	TenderID uint64  `json:"tenderId"`
	Winner   *Winner `json:"winner,omitempty"`
}

type TenderCanceled struct {
	TenderID uint64  `json:"tenderId"`
	By       Address `json:"by"`
}

type BidderRated struct {
	TenderID uint64  `json:"tenderId"`
	Bidder   Address `json:"bidder"`
	Rating   uint8   `json:"rating"`
}
