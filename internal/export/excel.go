package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/supply-bot/internal/order"
)

// Excel формирует xlsx-файл заявки: шапка в G2..G6, позиции с 9-й
// строки, колонки A..G.
type Excel struct {
	now func() time.Time
}

func NewExcel() *Excel {
	return &Excel{now: time.Now}
}

const headerRow = 8
const firstDataRow = 9

func (e *Excel) Render(o order.Order) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	if err := f.SetCellValue(sheet, "A1", "Заявка на снабжение"); err != nil {
		return nil, err
	}
	_ = f.MergeCell(sheet, "A1", "G1")

	_ = f.SetCellValue(sheet, "F2", "Дата заявки:")
	_ = f.SetCellValue(sheet, "F3", "Проект:")
	_ = f.SetCellValue(sheet, "F4", "Объект:")
	_ = f.SetCellValue(sheet, "F5", "От кого:")
	_ = f.SetCellValue(sheet, "F6", "Telegram:")

	_ = f.SetCellValue(sheet, "G2", e.now().Format("02.01.2006"))
	_ = f.SetCellValue(sheet, "G3", o.Project)
	_ = f.SetCellValue(sheet, "G4", o.Object)
	_ = f.SetCellValue(sheet, "G5", o.RequesterName)
	_ = f.SetCellValue(sheet, "G6", o.RequesterHandle)

	captions := []string{"№", "Наименование", "Ед.изм.", "Количество", "Дата поставки", "Модуль", "Ссылка"}
	for col, c := range captions {
		cell, _ := excelize.CoordinatesToCellName(col+1, headerRow)
		_ = f.SetCellValue(sheet, cell, c)
	}

	for i, it := range o.Items {
		r := firstDataRow + i
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), i+1)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", r), it.Name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", r), string(it.Unit))
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", r), it.Quantity)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", r), it.DeliveryDate.Format(order.DateLayout))
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", r), it.Module)
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", r), it.Link)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename — имя файла выгрузки: проект, объект, отправитель
// (пробелы заменены подчёркиваниями) и дата.
func Filename(o order.Order, now time.Time) string {
	name := strings.ReplaceAll(strings.TrimSpace(o.RequesterName), " ", "_")
	return fmt.Sprintf("Заявка_%s_%s_%s_%s.xlsx", o.Project, o.Object, name, now.Format("2006-01-02"))
}
