package dialog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthCalendarFebruaryLeapYear(t *testing.T) {
	g := MonthCalendar(2024, 2)

	// 1 февраля 2024 — четверг: три пустых ячейки перед ним.
	require.NotEmpty(t, g.Weeks)
	first := g.Weeks[0]
	assert.Equal(t, [7]int{0, 0, 0, 1, 2, 3, 4}, first)

	var days []int
	for _, week := range g.Weeks {
		for _, d := range week {
			if d != 0 {
				days = append(days, d)
			}
		}
	}
	require.Len(t, days, 29)
	assert.Equal(t, 1, days[0])
	assert.Equal(t, 29, days[len(days)-1])
	for i := 1; i < len(days); i++ {
		assert.Equal(t, days[i-1]+1, days[i], "дни идут подряд")
	}
}

func TestMonthCalendarMondayStart(t *testing.T) {
	// Сентябрь 2025 начинается с понедельника: первая ячейка занята.
	g := MonthCalendar(2025, 9)
	assert.Equal(t, 1, g.Weeks[0][0])
	assert.Equal(t, 7, g.Weeks[0][6])
}

func TestNormalizeMonth(t *testing.T) {
	cases := []struct {
		year, month  int
		wantY, wantM int
	}{
		{2024, 13, 2025, 1},
		{2024, 0, 2023, 12},
		{2024, 6, 2024, 6},
		{2024, 1, 2024, 1},
		{2024, 12, 2024, 12},
	}
	for _, c := range cases {
		y, m := NormalizeMonth(c.year, c.month)
		assert.Equal(t, c.wantY, y)
		assert.Equal(t, c.wantM, m)
	}
}

func TestCalendarKeyboardTokens(t *testing.T) {
	kb := calendarKeyboard(CalScopeItem, 2026, 9)

	nav := kb[0]
	require.Len(t, nav, 5)
	assert.Equal(t, CalNav{Scope: CalScopeItem, Year: 2025, Month: 9}, nav[0].Event)
	assert.Equal(t, CalNav{Scope: CalScopeItem, Year: 2026, Month: 8}, nav[1].Event)
	assert.Equal(t, "Сентябрь 2026", nav[2].Label)
	assert.Equal(t, Noop{}, nav[2].Event)
	assert.Equal(t, CalNav{Scope: CalScopeItem, Year: 2026, Month: 10}, nav[3].Event)
	assert.Equal(t, CalNav{Scope: CalScopeItem, Year: 2027, Month: 9}, nav[4].Event)

	head := kb[1]
	assert.Equal(t, "Пн", head[0].Label)
	assert.Equal(t, "Вс", head[6].Label)

	// 1 сентября 2026 — вторник, вторая ячейка первой недели дней.
	firstWeek := kb[2]
	assert.Equal(t, Noop{}, firstWeek[0].Event)
	pick, ok := firstWeek[1].Event.(CalPick)
	require.True(t, ok)
	assert.Equal(t, CalScopeItem, pick.Scope)
	assert.Equal(t, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC), pick.Date)

	last := kb[len(kb)-2]
	assert.Equal(t, CalCancel{Scope: CalScopeItem}, last[0].Event)
	assert.Equal(t, Cancel{}, kb[len(kb)-1][0].Event)
}
