package dialog

import (
	"fmt"
	"strings"

	"github.com/Spok95/supply-bot/internal/order"
)

const buttonsPerRow = 5

func projectPrompt() Reply {
	kb := [][]Button{}
	for _, p := range order.Projects {
		kb = append(kb, row(btn(p, PickProject{Name: p})))
	}
	kb = append(kb, cancelRow())
	return Reply{Text: "Выберите проект:", Buttons: kb}
}

func objectPrompt() Reply {
	kb := [][]Button{}
	for _, o := range order.Objects {
		kb = append(kb, row(btn(o, PickObject{Name: o})))
	}
	kb = append(kb, cancelRow())
	return Reply{Text: "Выберите объект:", Buttons: kb}
}

func unitPrompt(text string) Reply {
	kb := [][]Button{}
	for _, u := range order.Units {
		kb = append(kb, row(btn(string(u), PickUnit{Unit: u})))
	}
	kb = append(kb, cancelRow())
	return Reply{Text: text, Buttons: kb}
}

func modulePrompt(text string) Reply {
	kb := [][]Button{}
	r := []Button{}
	for _, mod := range order.Modules {
		r = append(r, btn(mod, PickModule{Module: mod}))
		if len(r) == buttonsPerRow {
			kb = append(kb, r)
			r = []Button{}
		}
	}
	if len(r) > 0 {
		kb = append(kb, r)
	}
	kb = append(kb, cancelRow())
	return Reply{Text: text, Buttons: kb}
}

func calendarPrompt(text string, scope CalScope, year, month int) Reply {
	return Reply{Text: text, Buttons: calendarKeyboard(scope, year, month)}
}

// attachPrompt предлагает недостающие виды вложений и «продолжить».
func attachPrompt(text string, it *order.Item) Reply {
	kb := [][]Button{}
	if it.File == nil {
		kb = append(kb, row(btn("Прикрепить файл", Attach{Kind: AttachFile})))
	}
	if it.Link == "" {
		kb = append(kb, row(btn("Прикрепить ссылку", Attach{Kind: AttachLink})))
	}
	kb = append(kb, row(btn("Продолжить без вложений", Attach{Kind: AttachSkip})))
	kb = append(kb, cancelRow())
	return Reply{Text: text, Buttons: kb}
}

func confirmMorePrompt() Reply {
	return Reply{
		Text: "Позиция добавлена. Добавить ещё позицию?",
		Buttons: [][]Button{
			row(btn("Да", More{Yes: true}), btn("Нет", More{Yes: false})),
			cancelRow(),
		},
	}
}

func cancelOnlyPrompt(text string) Reply {
	return Reply{Text: text, Buttons: [][]Button{cancelRow()}}
}

func positionsSummary(items []order.Item) string {
	if len(items) == 0 {
		return "Позиции отсутствуют."
	}
	lines := make([]string, 0, len(items))
	for i, it := range items {
		lines = append(lines, it.Summary(i+1))
	}
	return strings.Join(lines, "\n")
}

func editMenuPrompt(items []order.Item) Reply {
	kb := [][]Button{}
	if len(items) > 0 {
		kb = append(kb,
			row(btn("Редактировать позицию", Menu{Op: MenuEdit})),
			row(btn("Удалить позицию", Menu{Op: MenuDelete})),
		)
	}
	kb = append(kb, row(btn("Продолжить", Menu{Op: MenuProceed})))
	kb = append(kb, cancelRow())
	text := fmt.Sprintf("Текущие позиции в заявке:\n%s\n\nВыберите действие:", positionsSummary(items))
	return Reply{Text: text, Buttons: kb}
}

func positionPickPrompt(action Action, items []order.Item) Reply {
	verb := "удаления"
	if action == ActionEdit {
		verb = "редактирования"
	}
	kb := [][]Button{}
	r := []Button{}
	for i := range items {
		r = append(r, btn(fmt.Sprintf("%d", i+1), PickPos{Index: i + 1}))
		if len(r) == buttonsPerRow {
			kb = append(kb, r)
			r = []Button{}
		}
	}
	if len(r) > 0 {
		kb = append(kb, r)
	}
	kb = append(kb, row(btn("Назад в меню", Menu{Op: MenuBack})))
	kb = append(kb, cancelRow())
	text := fmt.Sprintf("Выберите номер позиции для %s:\n%s", verb, positionsSummary(items))
	return Reply{Text: text, Buttons: kb}
}

func fieldPickPrompt(idx int, it order.Item) Reply {
	card := fmt.Sprintf("Редактирование позиции №%d:\nМодуль: %s\nНаименование: %s\nЕд.изм.: %s\nКоличество: %s\nДата поставки: %s\n",
		idx+1, it.Module, it.Name, it.Unit, order.FormatQuantity(it.Quantity), it.DeliveryDate.Format(order.DateLayout))
	if it.Link != "" {
		card += "Ссылка: " + it.Link + "\n"
	}
	if it.File != nil {
		card += "Файл: " + it.File.Name + "\n"
	}
	kb := [][]Button{
		row(btn("Наименование", PickField{Field: FieldName})),
		row(btn("Ед. изм.", PickField{Field: FieldUnit})),
		row(btn("Количество", PickField{Field: FieldQty})),
		row(btn("Модуль", PickField{Field: FieldModule})),
		row(btn("Дата поставки", PickField{Field: FieldDate})),
		row(btn("Прикрепить/Изменить файл", PickField{Field: FieldFile})),
		row(btn("Прикрепить/Изменить ссылку", PickField{Field: FieldLink})),
		row(btn("Назад в меню", Menu{Op: MenuBack})),
		cancelRow(),
	}
	return Reply{Text: card + "\nВыберите поле для редактирования:", Buttons: kb}
}

func finalConfirmPrompt(s *Session) Reply {
	text := fmt.Sprintf("Проект: %s\nОбъект: %s\nОт кого: %s\nTelegram: %s\n\nПозиции:\n%s\n\nОтправить заявку на почту?",
		s.Project, s.Object, s.Requester.Name, s.Requester.Handle, positionsSummary(s.Items))
	return Reply{
		Text: text,
		Buttons: [][]Button{
			row(btn("Да", Final{Yes: true}), btn("Нет", Final{Yes: false})),
			cancelRow(),
		},
	}
}

func startPrompt(text string) Reply {
	return Reply{Text: text, ShowStart: true}
}
