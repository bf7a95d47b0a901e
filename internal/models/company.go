package models

// CompanyProfile представляет профиль компании-участника.
type CompanyProfile struct {
	Address         Address `json:"address"`
	Name            string  `json:"name"`
	RegistrationID  string  `json:"registrationId"`
	ContactEmail    string  `json:"contactEmail"`
	IPFSHash        string  `json:"ipfsHash,omitempty"`
	Registered      bool    `json:"isRegistered"`
	ReputationTotal uint64  `json:"reputationTotal"`
	RatingCount     uint64  `json:"ratingCount"`
}

// CompanyRequest представляет структуру запроса на регистрацию компании.
type CompanyRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	RegistrationID string `json:"registrationId" validate:"required,max=50"`
	ContactEmail   string `json:"contactEmail" validate:"required,email"`
	IPFSHash       string `json:"ipfsHash" validate:"max=100"`
}
