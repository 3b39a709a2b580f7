package dialog

import "github.com/Spok95/supply-bot/internal/order"

// Identity — кто ведёт диалог: отображаемое имя (может быть пустым)
// и хэндл (username, либо числовой id текстом).
type Identity struct {
	Name   string
	Handle string
}

// Session — состояние одного диалога создания заявки.
// Живёт от «Создать заявку» до отправки или отмены, нигде не хранится.
type Session struct {
	ChatID    int64
	Requester Identity

	Project string
	Object  string
	Items   []order.Item

	State State
	Mode  Mode
}

func newSession(chatID int64, who Identity) *Session {
	return &Session{
		ChatID:    chatID,
		Requester: who,
		State:     StateProject,
		Mode:      ModeIdle{},
	}
}

// Order собирает готовую заявку из сессии.
func (s *Session) Order() order.Order {
	return order.Order{
		Project:         s.Project,
		Object:          s.Object,
		RequesterName:   s.Requester.Name,
		RequesterHandle: s.Requester.Handle,
		Items:           s.Items,
	}
}
