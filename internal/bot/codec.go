package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Spok95/supply-bot/internal/dialog"
	"github.com/Spok95/supply-bot/internal/order"
)

// Кодек callback-токенов. Ядро работает с типизированными событиями,
// строковые токены живут только здесь, на границе с Telegram.
// callback_data ограничена 64 байтами, токены короткие.

func encode(ev dialog.Event) string {
	switch e := ev.(type) {
	case dialog.Cancel:
		return "nav:cancel"
	case dialog.Noop:
		return "noop"
	case dialog.PickProject:
		return "prj:" + e.Name
	case dialog.PickObject:
		return "obj:" + e.Name
	case dialog.PickUnit:
		return "unit:" + string(e.Unit)
	case dialog.PickModule:
		return "mod:" + e.Module
	case dialog.CalNav:
		return fmt.Sprintf("cal:%s:nav:%d:%d", e.Scope, e.Year, e.Month)
	case dialog.CalPick:
		return fmt.Sprintf("cal:%s:day:%s", e.Scope, e.Date.Format(order.DateLayout))
	case dialog.CalCancel:
		return fmt.Sprintf("cal:%s:cancel", e.Scope)
	case dialog.Attach:
		return "att:" + string(e.Kind)
	case dialog.More:
		return "more:" + yesNo(e.Yes)
	case dialog.Menu:
		return "menu:" + string(e.Op)
	case dialog.PickPos:
		return fmt.Sprintf("pos:%d", e.Index)
	case dialog.PickField:
		return "fld:" + string(e.Field)
	case dialog.Final:
		return "fin:" + yesNo(e.Yes)
	}
	return "noop"
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func decode(data string) (dialog.Event, bool) {
	if data == "noop" {
		return dialog.Noop{}, true
	}
	if data == "nav:cancel" {
		return dialog.Cancel{}, true
	}

	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 {
		return nil, false
	}
	kind, rest := parts[0], parts[1]

	switch kind {
	case "prj":
		return dialog.PickProject{Name: rest}, true
	case "obj":
		return dialog.PickObject{Name: rest}, true
	case "unit":
		return dialog.PickUnit{Unit: order.Unit(rest)}, true
	case "mod":
		return dialog.PickModule{Module: rest}, true
	case "att":
		switch dialog.AttachKind(rest) {
		case dialog.AttachFile, dialog.AttachLink, dialog.AttachSkip:
			return dialog.Attach{Kind: dialog.AttachKind(rest)}, true
		}
		return nil, false
	case "more":
		return dialog.More{Yes: rest == "yes"}, true
	case "menu":
		switch dialog.MenuOp(rest) {
		case dialog.MenuEdit, dialog.MenuDelete, dialog.MenuProceed, dialog.MenuBack:
			return dialog.Menu{Op: dialog.MenuOp(rest)}, true
		}
		return nil, false
	case "pos":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return nil, false
		}
		return dialog.PickPos{Index: n}, true
	case "fld":
		return dialog.PickField{Field: dialog.Field(rest)}, true
	case "fin":
		return dialog.Final{Yes: rest == "yes"}, true
	case "cal":
		return decodeCalendar(rest)
	}
	return nil, false
}

func decodeCalendar(rest string) (dialog.Event, bool) {
	parts := strings.Split(rest, ":")
	if len(parts) < 2 {
		return nil, false
	}
	scope := dialog.CalScope(parts[0])
	if scope != dialog.CalScopeItem && scope != dialog.CalScopeEdit {
		return nil, false
	}
	switch parts[1] {
	case "cancel":
		return dialog.CalCancel{Scope: scope}, true
	case "nav":
		if len(parts) != 4 {
			return nil, false
		}
		y, err1 := strconv.Atoi(parts[2])
		mo, err2 := strconv.Atoi(parts[3])
		if err1 != nil || err2 != nil {
			return nil, false
		}
		return dialog.CalNav{Scope: scope, Year: y, Month: mo}, true
	case "day":
		if len(parts) != 3 {
			return nil, false
		}
		d, err := time.Parse(order.DateLayout, parts[2])
		if err != nil {
			return nil, false
		}
		return dialog.CalPick{Scope: scope, Date: d}, true
	}
	return nil, false
}
