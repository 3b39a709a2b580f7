package dialog

import (
	"fmt"
	"time"
)

// MonthGrid — сетка месяца, понедельник первый. 0 — ячейка вне месяца.
type MonthGrid struct {
	Year  int
	Month int
	Weeks [][7]int
}

// MonthCalendar строит сетку выбранного месяца. Чистая функция:
// результат полностью определяется (year, month).
func MonthCalendar(year, month int) MonthGrid {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	lead := (int(first.Weekday()) + 6) % 7 // Monday = 0
	days := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()

	g := MonthGrid{Year: year, Month: month}
	week := [7]int{}
	col := lead
	for d := 1; d <= days; d++ {
		week[col] = d
		col++
		if col == 7 {
			g.Weeks = append(g.Weeks, week)
			week = [7]int{}
			col = 0
		}
	}
	if col > 0 {
		g.Weeks = append(g.Weeks, week)
	}
	return g
}

// NormalizeMonth сводит месяц в 1..12 с переносом года:
// (2024, 13) -> (2025, 1), (2024, 0) -> (2023, 12).
func NormalizeMonth(year, month int) (int, int) {
	if month > 12 {
		return year + 1, 1
	}
	if month < 1 {
		return year - 1, 12
	}
	return year, month
}

var monthNames = [...]string{"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь"}

var weekdayNames = [...]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

// calendarKeyboard — клавиатура календаря для выбора даты поставки.
// scope попадает в каждое событие, чтобы календарь ввода позиции и
// календарь редактирования не перехватывали нажатия друг друга.
func calendarKeyboard(scope CalScope, year, month int) [][]Button {
	g := MonthCalendar(year, month)

	kb := [][]Button{
		row(
			btn("<<", CalNav{Scope: scope, Year: year - 1, Month: month}),
			btn("<", CalNav{Scope: scope, Year: year, Month: month - 1}),
			btn(fmt.Sprintf("%s %d", monthNames[month-1], year), Noop{}),
			btn(">", CalNav{Scope: scope, Year: year, Month: month + 1}),
			btn(">>", CalNav{Scope: scope, Year: year + 1, Month: month}),
		),
	}

	head := make([]Button, 7)
	for i, wd := range weekdayNames {
		head[i] = btn(wd, Noop{})
	}
	kb = append(kb, head)

	for _, week := range g.Weeks {
		r := make([]Button, 7)
		for i, d := range week {
			if d == 0 {
				r[i] = btn(" ", Noop{})
				continue
			}
			day := time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC)
			r[i] = btn(fmt.Sprintf("%d", d), CalPick{Scope: scope, Date: day})
		}
		kb = append(kb, r)
	}

	kb = append(kb, row(btn("Отмена выбора даты", CalCancel{Scope: scope})))
	kb = append(kb, cancelRow())
	return kb
}
