package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/senyabanana/sealed-tender/internal/models"
	"github.com/senyabanana/sealed-tender/internal/utils"
)

// decodeRequest читает тело запроса без неизвестных полей и проверяет теги validate.
func decodeRequest(r *http.Request, req any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(req); err != nil {
		return models.InvalidInput("invalid request body: %v", err)
	}
	return utils.ValidateStruct(req)
}
