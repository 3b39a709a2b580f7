package order

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout — формат даты поставки в заявке и в выгрузке.
const DateLayout = "2006-01-02"

type Unit string

const (
	UnitM2  Unit = "м2"
	UnitM3  Unit = "м3"
	UnitPcs Unit = "шт"
	UnitSet Unit = "компл"
	UnitL   Unit = "л"
	UnitKg  Unit = "кг"
	UnitT   Unit = "тн"
)

var Units = []Unit{UnitM2, UnitM3, UnitPcs, UnitSet, UnitL, UnitKg, UnitT}

var Projects = []string{"Stadler", "Мотели"}

var Objects = []string{"Мерке", "Аральск", "Атырау", "Каркаролинск", "Семипалатинск"}

// Modules — фиксированный набор модулей "1".."18".
var Modules = func() []string {
	ms := make([]string, 18)
	for i := range ms {
		ms[i] = strconv.Itoa(i + 1)
	}
	return ms
}()

func ValidProject(s string) bool { return contains(Projects, s) }
func ValidObject(s string) bool  { return contains(Objects, s) }
func ValidModule(s string) bool  { return contains(Modules, s) }

func ValidUnit(s string) bool {
	for _, u := range Units {
		if string(u) == s {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// FileRef — ссылка на загруженный в Telegram документ.
// Сами байты скачиваются только при отправке заявки.
type FileRef struct {
	ID   string
	Name string
	MIME string
}

// Item — одна позиция заявки. В списке позиций заявки лежат только
// полностью заполненные позиции; черновик живёт отдельно в сессии.
type Item struct {
	Name         string
	Unit         Unit
	Quantity     float64
	Module       string
	DeliveryDate time.Time
	File         *FileRef
	Link         string
}

// Complete проверяет, что все обязательные поля позиции заполнены.
func (it Item) Complete() bool {
	return it.Name != "" && it.Unit != "" && it.Quantity > 0 &&
		it.Module != "" && !it.DeliveryDate.IsZero()
}

// Order — готовая заявка: проект, объект, отправитель и позиции
// в порядке добавления.
type Order struct {
	Project         string
	Object          string
	RequesterName   string
	RequesterHandle string
	Items           []Item
}

var (
	ErrBadQuantity = errors.New("количество должно быть положительным числом")
	ErrBadLink     = errors.New("ссылка должна начинаться с http:// или https://")
)

// ParseQuantity разбирает количество. Запятая принимается как
// десятичный разделитель.
func ParseQuantity(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	q, err := strconv.ParseFloat(s, 64)
	if err != nil || q <= 0 {
		return 0, ErrBadQuantity
	}
	return q, nil
}

// ValidateLink проверяет префикс ссылки, содержимое не трогаем.
func ValidateLink(s string) error {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return nil
	}
	return ErrBadLink
}

// FormatQuantity печатает количество без хвостовых нулей: 5, 3.5.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// Summary — строка позиции для сводок в чате и в теле письма.
func (it Item) Summary(idx int) string {
	line := fmt.Sprintf("%d. Модуль: %s | Наименование: %s | Ед.изм.: %s | Количество: %s | Дата поставки: %s",
		idx, it.Module, it.Name, it.Unit, FormatQuantity(it.Quantity), it.DeliveryDate.Format(DateLayout))
	if it.Link != "" {
		line += " | Ссылка: " + it.Link
	}
	if it.File != nil {
		line += " | Файл: " + it.File.Name
	}
	return line
}
