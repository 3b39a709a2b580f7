package dialog

import (
	"time"

	"github.com/Spok95/supply-bot/internal/order"
)

// Event — входящее событие диалога. Транспорт разбирает сообщения и
// callback-токены Telegram в эти варианты; ядро строковых токенов
// не видит.
type Event interface{ event() }

// Start — нажата «Создать заявку».
type Start struct{}

// Cancel — глобальная «Отмена заявки», принимается из любого состояния.
type Cancel struct{}

// Text — свободный текстовый ввод.
type Text struct{ Value string }

// File — прислан документ.
type File struct{ Ref order.FileRef }

type PickProject struct{ Name string }
type PickObject struct{ Name string }
type PickUnit struct{ Unit order.Unit }
type PickModule struct{ Module string }

// CalScope разводит одновременно живущие календари: календарь новой
// позиции и календарь редактирования не должны путать токены.
type CalScope string

const (
	CalScopeItem CalScope = "item"
	CalScopeEdit CalScope = "edit"
)

// CalNav — навигация по календарю. Месяц может выходить за 1..12,
// нормализация с переносом года происходит при обработке.
type CalNav struct {
	Scope CalScope
	Year  int
	Month int
}

// CalPick — выбран день.
type CalPick struct {
	Scope CalScope
	Date  time.Time
}

// CalCancel — «Отмена выбора даты».
type CalCancel struct{ Scope CalScope }

// Noop — нажата неактивная ячейка (пустой день, заголовок).
type Noop struct{}

type AttachKind string

const (
	AttachFile AttachKind = "file"
	AttachLink AttachKind = "link"
	AttachSkip AttachKind = "skip"
)

// Attach — выбор в меню вложений позиции.
type Attach struct{ Kind AttachKind }

// More — «Добавить ещё позицию?»
type More struct{ Yes bool }

type MenuOp string

const (
	MenuEdit    MenuOp = "edit"
	MenuDelete  MenuOp = "delete"
	MenuProceed MenuOp = "proceed"
	MenuBack    MenuOp = "back"
)

// Menu — действие в меню редактирования заявки.
type Menu struct{ Op MenuOp }

// PickPos — выбран номер позиции; Index — внешний, с единицы.
type PickPos struct{ Index int }

// PickField — выбрано поле для редактирования.
type PickField struct{ Field Field }

// Final — ответ на «Отправить заявку?».
type Final struct{ Yes bool }

func (Start) event()       {}
func (Cancel) event()      {}
func (Text) event()        {}
func (File) event()        {}
func (PickProject) event() {}
func (PickObject) event()  {}
func (PickUnit) event()    {}
func (PickModule) event()  {}
func (CalNav) event()      {}
func (CalPick) event()     {}
func (CalCancel) event()   {}
func (Noop) event()        {}
func (Attach) event()      {}
func (More) event()        {}
func (Menu) event()        {}
func (PickPos) event()     {}
func (PickField) event()   {}
func (Final) event()       {}

// Button — кнопка исходящей клавиатуры; Event — что придёт обратно.
type Button struct {
	Label string
	Event Event
}

// Reply — исходящее сообщение: текст, опциональная inline-клавиатура
// и флаг нижней клавиатуры «Создать заявку».
type Reply struct {
	Text      string
	Buttons   [][]Button
	ShowStart bool
}

func btn(label string, ev Event) Button { return Button{Label: label, Event: ev} }

func row(bs ...Button) []Button { return bs }

func cancelRow() []Button {
	return row(btn("Отмена заявки", Cancel{}))
}
