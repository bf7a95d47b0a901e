package models

type (
	Phase  uint8 // Производная фаза жизненного цикла тендера
	Action uint8 // Действие над тендером
)

const (
	PhaseBidding       Phase = iota + 1 // Открыт, идёт приём закрытых ставок
	PhaseReveal                         // Открыт, идёт раскрытие ставок
	PhaseAwaitingClose                  // Открыт, сроки истекли, ждёт финализации
	PhaseFinalized                      // Финализирован
	PhaseCanceled                       // Отменён
)

const (
	ActionSubmitCommitment Action = iota + 1 // Подать закрытую ставку
	ActionReveal                             // Раскрыть ставку
	ActionFinalize                           // Выбрать победителя
	ActionCancel                             // Отменить тендер
	ActionRate                               // Оценить победителя
)

// Actions перечисляет все действия в порядке объявления.
var Actions = []Action{ActionSubmitCommitment, ActionReveal, ActionFinalize, ActionCancel, ActionRate}

func (p Phase) String() string {
	switch p {
	case PhaseBidding:
		return "Bidding"
	case PhaseReveal:
		return "Reveal"
	case PhaseAwaitingClose:
		return "AwaitingClose"
	case PhaseFinalized:
		return "Finalized"
	case PhaseCanceled:
		return "Canceled"
	}
	return "Unknown"
}

// IsOpen сообщает, относится ли фаза к подфазам статуса Open.
func (p Phase) IsOpen() bool {
	return p == PhaseBidding || p == PhaseReveal || p == PhaseAwaitingClose
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (a Action) String() string {
	switch a {
	case ActionSubmitCommitment:
		return "submit-commitment"
	case ActionReveal:
		return "reveal"
	case ActionFinalize:
		return "finalize"
	case ActionCancel:
		return "cancel"
	case ActionRate:
		return "rate"
	}
	return "unknown"
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
