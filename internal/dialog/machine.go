package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Spok95/supply-bot/internal/infra/metrics"
	"github.com/Spok95/supply-bot/internal/order"
)

// Renderer превращает готовую заявку в xlsx-документ.
type Renderer interface {
	Render(o order.Order) ([]byte, error)
}

// Attachment — скачанное вложение позиции, готовое к отправке.
type Attachment struct {
	Position int // номер позиции, с единицы
	Name     string
	MIME     string
	Data     []byte
}

// Dispatcher отправляет заявку получателю. Одна попытка, без ретраев.
type Dispatcher interface {
	Dispatch(ctx context.Context, o order.Order, document []byte, atts []Attachment) error
}

// FileResolver скачивает байты вложения по его file reference.
type FileResolver interface {
	Resolve(ctx context.Context, ref order.FileRef) ([]byte, error)
}

// Machine — конечный автомат диалога. Каждое состояние обрабатывает
// только свои события; всё остальное — «не понял» без смены состояния.
type Machine struct {
	store    *Store
	files    FileResolver
	renderer Renderer
	sender   Dispatcher
	log      *slog.Logger
	now      func() time.Time
}

func NewMachine(store *Store, files FileResolver, renderer Renderer, sender Dispatcher, log *slog.Logger) *Machine {
	return &Machine{
		store:    store,
		files:    files,
		renderer: renderer,
		sender:   sender,
		log:      log,
		now:      time.Now,
	}
}

const (
	msgNotUnderstood = "Извините, я не понял. Используйте кнопки выше или «Отмена заявки»."
	msgIdleHint      = "Привет! Я бот для создания заявок. Нажмите «Создать заявку», чтобы начать."
	msgEnterName     = "Введите наименование позиции:"
	msgBadQuantity   = "Неверный формат количества. Пожалуйста, введите число (например, 5 или 3.5):"
	msgBadLink       = "Пожалуйста, введите корректную ссылку, начинающуюся с http:// или https://."
	msgWantDocument  = "Это не похоже на файл-документ. Пожалуйста, отправьте файл (документ)."
)

// Handle обрабатывает одно событие чата. События одного чата
// сериализуются, разные чаты идут параллельно.
func (m *Machine) Handle(ctx context.Context, chatID int64, who Identity, ev Event) []Reply {
	unlock := m.store.Lock(chatID)
	defer unlock()

	if _, ok := ev.(Noop); ok {
		return nil
	}

	sess, ok := m.store.Get(chatID)

	if _, isStart := ev.(Start); isStart {
		// Повторный старт затирает прежнюю сессию целиком.
		sess = m.store.Create(chatID, who)
		metrics.OrdersStarted.Inc()
		m.log.Info("order started", "chat_id", chatID, "requester", who.Handle)
		return []Reply{{Text: "Начинаем создание заявки..."}, projectPrompt()}
	}

	if !ok {
		return []Reply{startPrompt(msgIdleHint)}
	}

	if _, isCancel := ev.(Cancel); isCancel {
		m.store.Delete(chatID)
		metrics.OrdersCancelled.Inc()
		m.log.Info("order cancelled", "chat_id", chatID, "state", sess.State)
		return []Reply{startPrompt("Диалог отменён. Для создания новой заявки нажмите «Создать заявку».")}
	}

	switch sess.State {
	case StateProject:
		return m.onProject(sess, ev)
	case StateObject:
		return m.onObject(sess, ev)
	case StateItemName:
		return m.onItemName(sess, ev)
	case StateUnit:
		return m.onUnit(sess, ev)
	case StateQuantity:
		return m.onQuantity(sess, ev)
	case StateModule:
		return m.onModule(sess, ev)
	case StateDeliveryDate:
		return m.onDeliveryDate(sess, ev)
	case StateAttachChoice:
		return m.onAttachChoice(sess, ev)
	case StateAwaitFile:
		return m.onAwaitFile(sess, ev)
	case StateAwaitLink:
		return m.onAwaitLink(sess, ev)
	case StateConfirmMore:
		return m.onConfirmMore(sess, ev)
	case StateEditMenu:
		return m.onEditMenu(sess, ev)
	case StateSelectPos:
		return m.onSelectPos(sess, ev)
	case StateSelectField:
		return m.onSelectField(sess, ev)
	case StateEditValue:
		return m.onEditValue(sess, ev)
	case StateFinalConfirm:
		return m.onFinalConfirm(ctx, sess, ev)
	}
	m.log.Error("unknown dialog state", "chat_id", chatID, "state", sess.State)
	return []Reply{{Text: msgNotUnderstood}}
}

func notUnderstood() []Reply {
	return []Reply{{Text: msgNotUnderstood}}
}

func (m *Machine) onProject(s *Session, ev Event) []Reply {
	pick, ok := ev.(PickProject)
	if !ok || !order.ValidProject(pick.Name) {
		return notUnderstood()
	}
	s.Project = pick.Name
	s.State = StateObject
	return []Reply{objectPrompt()}
}

func (m *Machine) onObject(s *Session, ev Event) []Reply {
	pick, ok := ev.(PickObject)
	if !ok || !order.ValidObject(pick.Name) {
		return notUnderstood()
	}
	s.Object = pick.Name
	s.State = StateItemName
	s.Mode = ModeBuilding{Draft: &order.Item{}}
	return []Reply{{Text: msgEnterName}}
}

func (m *Machine) onItemName(s *Session, ev Event) []Reply {
	txt, ok := ev.(Text)
	if !ok {
		return notUnderstood()
	}
	name := strings.TrimSpace(txt.Value)
	if name == "" {
		return []Reply{{Text: "Наименование не может быть пустым. Введите ещё раз."}}
	}
	b := s.Mode.(ModeBuilding)
	b.Draft.Name = name
	s.State = StateUnit
	return []Reply{unitPrompt("Выберите единицу измерения:")}
}

func (m *Machine) onUnit(s *Session, ev Event) []Reply {
	pick, ok := ev.(PickUnit)
	if !ok || !order.ValidUnit(string(pick.Unit)) {
		return notUnderstood()
	}
	if ed, editing := s.Mode.(ModeEditing); editing {
		s.Items[ed.Index].Unit = pick.Unit
		return m.backToEditMenu(s, fmt.Sprintf("Единица измерения обновлена на «%s».", pick.Unit))
	}
	s.Mode.(ModeBuilding).Draft.Unit = pick.Unit
	s.State = StateQuantity
	return []Reply{{Text: "Введите количество:"}}
}

func (m *Machine) onQuantity(s *Session, ev Event) []Reply {
	txt, ok := ev.(Text)
	if !ok {
		return notUnderstood()
	}
	q, err := order.ParseQuantity(txt.Value)
	if err != nil {
		return []Reply{{Text: msgBadQuantity}}
	}
	s.Mode.(ModeBuilding).Draft.Quantity = q
	s.State = StateModule
	return []Reply{modulePrompt("К какому модулю относится позиция?")}
}

func (m *Machine) onModule(s *Session, ev Event) []Reply {
	pick, ok := ev.(PickModule)
	if !ok || !order.ValidModule(pick.Module) {
		return notUnderstood()
	}
	if ed, editing := s.Mode.(ModeEditing); editing {
		s.Items[ed.Index].Module = pick.Module
		return m.backToEditMenu(s, fmt.Sprintf("Модуль обновлён на «%s».", pick.Module))
	}
	s.Mode.(ModeBuilding).Draft.Module = pick.Module
	s.State = StateDeliveryDate
	y, mo := m.now().Year(), int(m.now().Month())
	return []Reply{calendarPrompt("Выберите желаемую дату поставки для этой позиции:", CalScopeItem, y, mo)}
}

func (m *Machine) calScope(s *Session) CalScope {
	if _, editing := s.Mode.(ModeEditing); editing {
		return CalScopeEdit
	}
	return CalScopeItem
}

func (m *Machine) onDeliveryDate(s *Session, ev Event) []Reply {
	scope := m.calScope(s)
	switch e := ev.(type) {
	case CalNav:
		if e.Scope != scope {
			return notUnderstood()
		}
		y, mo := NormalizeMonth(e.Year, e.Month)
		return []Reply{calendarPrompt("Выберите дату:", scope, y, mo)}
	case CalPick:
		if e.Scope != scope {
			return notUnderstood()
		}
		if ed, editing := s.Mode.(ModeEditing); editing {
			s.Items[ed.Index].DeliveryDate = e.Date
			return m.backToEditMenu(s, fmt.Sprintf("Дата поставки обновлена на %s.", e.Date.Format(order.DateLayout)))
		}
		b := s.Mode.(ModeBuilding)
		b.Draft.DeliveryDate = e.Date
		s.State = StateAttachChoice
		return []Reply{attachPrompt("Теперь вы можете прикрепить файл или ссылку к этой позиции:", b.Draft)}
	case CalCancel:
		if e.Scope != scope {
			return notUnderstood()
		}
		if _, editing := s.Mode.(ModeEditing); editing {
			return m.backToEditMenu(s, "Выбор даты отменён.")
		}
		// Отмена даты при вводе позиции выбрасывает весь черновик.
		return m.backToEditMenu(s, "Выбор даты для позиции отменён. Вы можете добавить позицию снова или продолжить.")
	}
	return notUnderstood()
}

func (m *Machine) onAttachChoice(s *Session, ev Event) []Reply {
	at, ok := ev.(Attach)
	if !ok {
		return notUnderstood()
	}
	b := s.Mode.(ModeBuilding)
	switch at.Kind {
	case AttachFile:
		s.State = StateAwaitFile
		return []Reply{cancelOnlyPrompt("Пожалуйста, отправьте мне файл (как документ) для этой позиции.")}
	case AttachLink:
		s.State = StateAwaitLink
		return []Reply{cancelOnlyPrompt("Пожалуйста, введите ссылку для этой позиции.")}
	case AttachSkip:
		// Финализация: только здесь черновик попадает в список позиций.
		s.Items = append(s.Items, *b.Draft)
		s.Mode = ModeIdle{}
		s.State = StateConfirmMore
		return []Reply{confirmMorePrompt()}
	}
	return notUnderstood()
}

func (m *Machine) onAwaitFile(s *Session, ev Event) []Reply {
	f, ok := ev.(File)
	if !ok {
		return []Reply{{Text: msgWantDocument}}
	}
	ref := f.Ref
	if ed, editing := s.Mode.(ModeEditing); editing {
		s.Items[ed.Index].File = &ref
		return m.backToEditMenu(s, fmt.Sprintf("Файл «%s» прикреплён к позиции.", ref.Name))
	}
	b := s.Mode.(ModeBuilding)
	b.Draft.File = &ref
	s.State = StateAttachChoice
	return []Reply{
		{Text: fmt.Sprintf("Файл «%s» успешно прикреплён.", ref.Name)},
		attachPrompt("Что дальше?", b.Draft),
	}
}

func (m *Machine) onAwaitLink(s *Session, ev Event) []Reply {
	txt, ok := ev.(Text)
	if !ok {
		return notUnderstood()
	}
	link := strings.TrimSpace(txt.Value)
	if err := order.ValidateLink(link); err != nil {
		return []Reply{{Text: msgBadLink}}
	}
	if ed, editing := s.Mode.(ModeEditing); editing {
		s.Items[ed.Index].Link = link
		return m.backToEditMenu(s, fmt.Sprintf("Ссылка «%s» прикреплена к позиции.", link))
	}
	b := s.Mode.(ModeBuilding)
	b.Draft.Link = link
	s.State = StateAttachChoice
	return []Reply{
		{Text: fmt.Sprintf("Ссылка «%s» успешно прикреплена.", link)},
		attachPrompt("Что дальше?", b.Draft),
	}
}

func (m *Machine) onConfirmMore(s *Session, ev Event) []Reply {
	more, ok := ev.(More)
	if !ok {
		return notUnderstood()
	}
	if more.Yes {
		s.Mode = ModeBuilding{Draft: &order.Item{}}
		s.State = StateItemName
		return []Reply{{Text: msgEnterName}}
	}
	return m.backToEditMenu(s, "")
}

// backToEditMenu закрывает черновик/курсор и показывает меню заявки.
func (m *Machine) backToEditMenu(s *Session, note string) []Reply {
	s.Mode = ModeIdle{}
	s.State = StateEditMenu
	var replies []Reply
	if note != "" {
		replies = append(replies, Reply{Text: note})
	}
	return append(replies, editMenuPrompt(s.Items))
}

func (m *Machine) onEditMenu(s *Session, ev Event) []Reply {
	menu, ok := ev.(Menu)
	if !ok {
		return notUnderstood()
	}
	switch menu.Op {
	case MenuEdit, MenuDelete:
		if len(s.Items) == 0 {
			return []Reply{editMenuPrompt(s.Items)}
		}
		action := ActionEdit
		if menu.Op == MenuDelete {
			action = ActionDelete
		}
		s.Mode = ModeSelecting{Action: action}
		s.State = StateSelectPos
		return []Reply{positionPickPrompt(action, s.Items)}
	case MenuProceed:
		s.State = StateFinalConfirm
		return []Reply{finalConfirmPrompt(s)}
	}
	return notUnderstood()
}

func (m *Machine) onSelectPos(s *Session, ev Event) []Reply {
	if menu, ok := ev.(Menu); ok && menu.Op == MenuBack {
		return m.backToEditMenu(s, "")
	}
	pick, ok := ev.(PickPos)
	if !ok {
		return notUnderstood()
	}
	sel := s.Mode.(ModeSelecting)
	// Номера на кнопках с единицы, внутри — с нуля.
	idx := pick.Index - 1
	if idx < 0 || idx >= len(s.Items) {
		return []Reply{
			{Text: "Выбрана несуществующая позиция. Пожалуйста, выберите номер из списка."},
			positionPickPrompt(sel.Action, s.Items),
		}
	}
	if sel.Action == ActionDelete {
		name := s.Items[idx].Name
		s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
		return m.backToEditMenu(s, fmt.Sprintf("Позиция «%s» удалена.", name))
	}
	s.Mode = ModeEditing{Index: idx}
	s.State = StateSelectField
	return []Reply{fieldPickPrompt(idx, s.Items[idx])}
}

func (m *Machine) onSelectField(s *Session, ev Event) []Reply {
	if menu, ok := ev.(Menu); ok && menu.Op == MenuBack {
		return m.backToEditMenu(s, "")
	}
	pick, ok := ev.(PickField)
	if !ok {
		return notUnderstood()
	}
	ed := s.Mode.(ModeEditing)
	ed.Field = pick.Field
	s.Mode = ed
	switch pick.Field {
	case FieldDate:
		s.State = StateDeliveryDate
		y, mo := m.now().Year(), int(m.now().Month())
		return []Reply{calendarPrompt("Выберите новую дату поставки:", CalScopeEdit, y, mo)}
	case FieldUnit:
		s.State = StateUnit
		return []Reply{unitPrompt("Выберите новую единицу измерения:")}
	case FieldModule:
		s.State = StateModule
		return []Reply{modulePrompt("Выберите новый модуль:")}
	case FieldFile:
		s.State = StateAwaitFile
		return []Reply{cancelOnlyPrompt("Пожалуйста, отправьте мне файл (как документ) для этой позиции.")}
	case FieldLink:
		s.State = StateAwaitLink
		return []Reply{cancelOnlyPrompt("Пожалуйста, введите ссылку для этой позиции.")}
	case FieldName:
		s.State = StateEditValue
		return []Reply{{Text: "Введите новое наименование:"}}
	case FieldQty:
		s.State = StateEditValue
		return []Reply{{Text: "Введите новое количество:"}}
	}
	return notUnderstood()
}

func (m *Machine) onEditValue(s *Session, ev Event) []Reply {
	txt, ok := ev.(Text)
	if !ok {
		return notUnderstood()
	}
	ed := s.Mode.(ModeEditing)
	switch ed.Field {
	case FieldQty:
		q, err := order.ParseQuantity(txt.Value)
		if err != nil {
			return []Reply{{Text: msgBadQuantity}}
		}
		s.Items[ed.Index].Quantity = q
		return m.backToEditMenu(s, "Поле «количество» обновлено.")
	case FieldName:
		name := strings.TrimSpace(txt.Value)
		if name == "" {
			return []Reply{{Text: "Наименование не может быть пустым. Введите ещё раз."}}
		}
		s.Items[ed.Index].Name = name
		return m.backToEditMenu(s, "Поле «наименование» обновлено.")
	}
	return notUnderstood()
}

func (m *Machine) onFinalConfirm(ctx context.Context, s *Session, ev Event) []Reply {
	fin, ok := ev.(Final)
	if !ok {
		return notUnderstood()
	}
	defer m.store.Delete(s.ChatID)
	if !fin.Yes {
		metrics.OrdersCancelled.Inc()
		return []Reply{startPrompt("Отправка заявки отменена. Для создания новой заявки нажмите «Создать заявку».")}
	}
	return m.dispatch(ctx, s)
}

// dispatch — единственная попытка отправки. Сессия очищается
// независимо от исхода, сбой отдельного вложения не останавливает
// отправку остальных.
func (m *Machine) dispatch(ctx context.Context, s *Session) []Reply {
	o := s.Order()

	var (
		atts     []Attachment
		failures []string
		total    int
	)
	for i, it := range o.Items {
		if it.File == nil {
			continue
		}
		total++
		data, err := m.files.Resolve(ctx, *it.File)
		if err != nil {
			metrics.AttachmentFailures.Inc()
			m.log.Error("attachment fetch failed", "chat_id", s.ChatID, "position", i+1, "file", it.File.Name, "err", err)
			failures = append(failures, fmt.Sprintf("позиция %d (%s): %v", i+1, it.File.Name, err))
			continue
		}
		atts = append(atts, Attachment{Position: i + 1, Name: it.File.Name, MIME: it.File.MIME, Data: data})
	}

	doc, err := m.renderer.Render(o)
	if err != nil {
		metrics.DispatchFailures.Inc()
		m.log.Error("render failed", "chat_id", s.ChatID, "err", err)
		return []Reply{startPrompt(fmt.Sprintf("Произошла ошибка при формировании заявки: %v\nПожалуйста, попробуйте позднее.", err))}
	}

	if err := m.sender.Dispatch(ctx, o, doc, atts); err != nil {
		metrics.DispatchFailures.Inc()
		m.log.Error("dispatch failed", "chat_id", s.ChatID, "err", err)
		return []Reply{startPrompt(fmt.Sprintf("Произошла ошибка при отправке заявки: %v\nПожалуйста, попробуйте позднее.", err))}
	}

	metrics.OrdersSent.Inc()
	m.log.Info("order dispatched", "chat_id", s.ChatID, "items", len(o.Items), "attachments", len(atts))

	text := "Заявка успешно отправлена на почту!"
	if total > 0 {
		text += fmt.Sprintf("\nВложений прикреплено: %d из %d.", len(atts), total)
		if len(failures) > 0 {
			text += "\nНе удалось прикрепить:\n" + strings.Join(failures, "\n")
		}
	}
	return []Reply{startPrompt(text)}
}
