package models

import (
	"errors"
	"fmt"
)

// ErrorKind - вид ошибки, который видит вызывающий код.
type ErrorKind uint8

const (
	KindInvalidInput ErrorKind = iota + 1
	KindPhaseViolation
	KindDuplicateCommitment
	KindAlreadyRevealed
	KindHashMismatch
	KindAuthorityUnavailable
	KindNotFound
	KindNotAuthorized
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindPhaseViolation:
		return "PhaseViolation"
	case KindDuplicateCommitment:
		return "DuplicateCommitment"
	case KindAlreadyRevealed:
		return "AlreadyRevealed"
	case KindHashMismatch:
		return "HashMismatch"
	case KindAuthorityUnavailable:
		return "AuthorityUnavailable"
	case KindNotFound:
		return "NotFound"
	case KindNotAuthorized:
		return "NotAuthorized"
	}
	return "Unknown"
}

// TenderError - типизированная ошибка ядра.
// Action и Phase заполняются только для PhaseViolation.
type TenderError struct {
	Kind    ErrorKind
	Action  Action
	Phase   Phase
	Message string
	Err     error
}

// Сигнальные значения для errors.Is; сравнение идёт только по виду ошибки.
var (
	ErrInvalidInput         = &TenderError{Kind: KindInvalidInput}
	ErrPhaseViolation       = &TenderError{Kind: KindPhaseViolation}
	ErrDuplicateCommitment  = &TenderError{Kind: KindDuplicateCommitment}
	ErrAlreadyRevealed      = &TenderError{Kind: KindAlreadyRevealed}
	ErrHashMismatch         = &TenderError{Kind: KindHashMismatch}
	ErrAuthorityUnavailable = &TenderError{Kind: KindAuthorityUnavailable}
	ErrNotFound             = &TenderError{Kind: KindNotFound}
	ErrNotAuthorized        = &TenderError{Kind: KindNotAuthorized}
)

func (e *TenderError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *TenderError) Unwrap() error {
	return e.Err
}

func (e *TenderError) Is(target error) bool {
	t, ok := target.(*TenderError)
	return ok && t.Kind == e.Kind
}

// KindOf возвращает вид ошибки или 0, если ошибка не типизирована.
func KindOf(err error) ErrorKind {
	var te *TenderError
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}

// InvalidInput создаёт ошибку некорректного ввода.
func InvalidInput(format string, args ...any) error {
	return &TenderError{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// NewPhaseViolation сообщает, что действие недопустимо в текущей фазе.
func NewPhaseViolation(action Action, phase Phase) error {
	return &TenderError{
		Kind:    KindPhaseViolation,
		Action:  action,
		Phase:   phase,
		Message: fmt.Sprintf("action %s is not allowed in phase %s", action, phase),
	}
}

func DuplicateCommitment(tenderID uint64, bidder Address) error {
	return &TenderError{
		Kind:    KindDuplicateCommitment,
		Message: fmt.Sprintf("bidder %s already committed to tender %d", bidder, tenderID),
	}
}

func AlreadyRevealed(tenderID uint64, bidder Address) error {
	return &TenderError{
		Kind:    KindAlreadyRevealed,
		Message: fmt.Sprintf("bid of %s on tender %d is already revealed", bidder, tenderID),
	}
}

func HashMismatch(tenderID uint64, bidder Address) error {
	return &TenderError{
		Kind:    KindHashMismatch,
		Message: fmt.Sprintf("revealed bid of %s does not match the commitment on tender %d", bidder, tenderID),
	}
}

func NotFound(format string, args ...any) error {
	return &TenderError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NotAuthorized(format string, args ...any) error {
	return &TenderError{Kind: KindNotAuthorized, Message: fmt.Sprintf(format, args...)}
}

// AuthorityUnavailable оборачивает сбой внешнего леджера.
func AuthorityUnavailable(err error) error {
	return &TenderError{Kind: KindAuthorityUnavailable, Message: "tender authority unavailable", Err: err}
}
