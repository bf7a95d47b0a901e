package utils

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/senyabanana/sealed-tender/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// CallerHeader - заголовок с адресом вызывающего участника.
const CallerHeader = "X-Caller-Address"

var validate = validator.New()

// ValidateStruct проверяет теги validate и сводит ошибки к InvalidInput.
func ValidateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return models.InvalidInput("%v", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
	}
	return models.InvalidInput("invalid fields: %s", strings.Join(fields, ", "))
}

// SendErrorResponse отправляет ошибку в формате JSON
func SendErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, kind, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, models.ErrorResponse{
		StatusCode: statusCode,
		Kind:       kind,
		Message:    message,
	})
}

// StatusCode сопоставляет вид ошибки с HTTP-статусом.
func StatusCode(kind models.ErrorKind) int {
	switch kind {
	case models.KindInvalidInput:
		return http.StatusBadRequest
	case models.KindNotAuthorized:
		return http.StatusForbidden
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindPhaseViolation, models.KindDuplicateCommitment, models.KindAlreadyRevealed:
		return http.StatusConflict
	case models.KindHashMismatch:
		return http.StatusUnprocessableEntity
	case models.KindAuthorityUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// SendError отправляет типизированную ошибку; нетипизированные скрываются за 500.
func SendError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	kind := models.KindOf(err)
	if kind == 0 {
		logger.Println(err)
		SendErrorResponse(w, r, http.StatusInternalServerError, "", "internal server error")
		return
	}
	SendErrorResponse(w, r, StatusCode(kind), kind.String(), err.Error())
}

// ParseLimitOffset обрабатывает limit и offset
func ParseLimitOffset(limitStr, offsetStr string) (int, int, error) {
	var limit, offset int
	var err error

	if limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > 50 {
			return 0, 0, models.InvalidInput("invalid limit parameter, must be a positive integer [0:50]")
		}
	} else {
		limit = 5
	}

	if offsetStr != "" {
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return 0, 0, models.InvalidInput("invalid offset parameter, must be a non-negative integer")
		}
	} else {
		offset = 0
	}

	return limit, offset, nil
}

// TenderID достаёт идентификатор тендера из пути.
func TenderID(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "tenderId")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, models.InvalidInput("invalid tender id %q", raw)
	}
	return id, nil
}

// CallerAddress возвращает адрес вызывающего из заголовка X-Caller-Address.
func CallerAddress(r *http.Request) (models.Address, error) {
	raw := r.Header.Get(CallerHeader)
	if raw == "" {
		return "", models.InvalidInput("missing %s header", CallerHeader)
	}
	addr, err := models.ParseAddress(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", CallerHeader, err)
	}
	return addr, nil
}
