package lifecycle

import "github.com/senyabanana/sealed-tender/internal/models"

// View - производное состояние тендера для отображения.
type View struct {
	Phase           models.Phase    `json:"phase"`
	StatusLabel     string          `json:"statusLabel"`
	CategoryLabel   string          `json:"categoryLabel"`
	LegalActions    []models.Action `json:"legalActions"`
	BiddingTimeLeft string          `json:"biddingTimeLeft"`
	RevealTimeLeft  string          `json:"revealTimeLeft"`
}

// Describe собирает View для снимка тендера.
func Describe(s Snapshot) (View, error) {
	if s.Tender == nil {
		return View{}, models.InvalidInput("tender is required")
	}
	phase, err := PhaseOf(s.Tender, s.Now)
	if err != nil {
		return View{}, err
	}
	return View{
		Phase:           phase,
		StatusLabel:     s.Tender.Status.String(),
		CategoryLabel:   s.Tender.Category.String(),
		LegalActions:    LegalActions(s),
		BiddingTimeLeft: TimeLeft(s.Tender.BiddingDeadline, s.Now),
		RevealTimeLeft:  TimeLeft(s.Tender.RevealDeadline, s.Now),
	}, nil
}
