package dialog

import "github.com/Spok95/supply-bot/internal/order"

type State string

const (
	// Вне диалога: бот предлагает только «Создать заявку».
	StateIdle State = "idle"

	// Шапка заявки
	StateProject State = "project"
	StateObject  State = "object"

	// Сбор позиции (черновик)
	StateItemName     State = "item_name"
	StateUnit         State = "unit"
	StateQuantity     State = "quantity"
	StateModule       State = "module"
	StateDeliveryDate State = "delivery_date"
	StateAttachChoice State = "attach_choice"
	StateAwaitFile    State = "await_file"
	StateAwaitLink    State = "await_link"
	StateConfirmMore  State = "confirm_more"

	// Редактирование собранных позиций
	StateEditMenu    State = "edit_menu"
	StateSelectPos   State = "select_pos"
	StateSelectField State = "select_field"
	StateEditValue   State = "edit_value"

	StateFinalConfirm State = "final_confirm"
)

// Field — поле позиции, выбранное для редактирования.
type Field string

const (
	FieldName   Field = "name"
	FieldUnit   Field = "unit"
	FieldQty    Field = "quantity"
	FieldModule Field = "module"
	FieldDate   Field = "delivery_date"
	FieldFile   Field = "attach_file"
	FieldLink   Field = "attach_link"
)

// Action — что пользователь делает со списком позиций.
type Action string

const (
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Mode — чем сейчас занята сессия. Ровно один вариант активен,
// поэтому «черновик или курсор редактирования, но не оба сразу»
// гарантируется типом, а не соглашением.
type Mode interface{ mode() }

// ModeIdle — ни черновика, ни редактирования.
type ModeIdle struct{}

// ModeBuilding — собираем новую позицию.
type ModeBuilding struct {
	Draft *order.Item
}

// ModeSelecting — выбран edit/delete, ждём номер позиции.
type ModeSelecting struct {
	Action Action
}

// ModeEditing — редактируем поле существующей позиции.
// Index — внутренний (0-based) индекс в списке позиций.
type ModeEditing struct {
	Index int
	Field Field
}

func (ModeIdle) mode()      {}
func (ModeBuilding) mode()  {}
func (ModeSelecting) mode() {}
func (ModeEditing) mode()   {}
