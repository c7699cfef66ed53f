package domain

import "fmt"

// Category определяет вариант товара в каталоге.
type Category string

const (
	// CategoryGeneric — базовый товар без дополнительных атрибутов.
	CategoryGeneric Category = "Generic"
	// CategoryElectronics — электроника с гарантийным сроком.
	CategoryElectronics Category = "Electronics"
	// CategoryKitchen — кухонная техника с классом энергопотребления.
	CategoryKitchen Category = "Kitchen"
)

// Product — товар каталога. Вариант задаётся дискриминантом Category:
// для Electronics заполнен WarrantyMonths, для Kitchen — EnergyRating,
// остальные категории полезной нагрузки не несут.
type Product struct {
	ID       int64
	Name     string
	Category Category
	// PriceMinor — цена за единицу в минимальных денежных единицах (центы).
	PriceMinor int64
	// Stock — текущий остаток на складе, никогда не уходит в минус.
	Stock int64
	// Sales — суммарно проданные единицы; растёт ровно на то, что списано со Stock.
	Sales int64

	// WarrantyMonths — гарантия в месяцах (только Electronics).
	WarrantyMonths int32
	// EnergyRating — класс энергопотребления (только Kitchen).
	EnergyRating string
}

// NewProduct создаёт базовый товар без вариантной нагрузки.
func NewProduct(id int64, name string, category Category, priceMinor, stock int64) *Product {
	return &Product{
		ID:         id,
		Name:       name,
		Category:   category,
		PriceMinor: priceMinor,
		Stock:      stock,
	}
}

// NewElectronics создаёт товар категории Electronics.
func NewElectronics(id int64, name string, priceMinor, stock int64, warrantyMonths int32) *Product {
	p := NewProduct(id, name, CategoryElectronics, priceMinor, stock)
	p.WarrantyMonths = warrantyMonths
	return p
}

// NewKitchen создаёт товар категории Kitchen.
func NewKitchen(id int64, name string, priceMinor, stock int64, energyRating string) *Product {
	p := NewProduct(id, name, CategoryKitchen, priceMinor, stock)
	p.EnergyRating = energyRating
	return p
}

// InStock сообщает, достаточно ли остатка под запрошенное количество.
// Состояние не меняет.
func (p *Product) InStock(qty int64) bool {
	return qty <= p.Stock
}

// Purchase списывает qty со склада и увеличивает продажи на ту же величину.
// Пара декремент+инкремент выполняется как единое целое: либо оба, либо ни одного.
// qty <= 0 — ошибка вызывающего кода, а не нехватка стока.
func (p *Product) Purchase(qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: purchase qty %d", ErrQuantityInvalid, qty)
	}
	if !p.InStock(qty) {
		return ErrInsufficientStock
	}
	p.Stock -= qty
	p.Sales += qty
	return nil
}

// Restock увеличивает остаток на qty.
func (p *Product) Restock(qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: restock qty %d", ErrQuantityInvalid, qty)
	}
	p.Stock += qty
	return nil
}

// Describe возвращает человекочитаемое описание товара,
// включая вариантные поля его категории.
func (p *Product) Describe() string {
	base := fmt.Sprintf("%s - Category: %s, Price: $%s, Stock: %d",
		p.Name, p.Category, FormatMinor(p.PriceMinor), p.Stock)

	switch p.Category {
	case CategoryElectronics:
		return fmt.Sprintf("%s, Warranty: %d months", base, p.WarrantyMonths)
	case CategoryKitchen:
		return fmt.Sprintf("%s, Energy Rating: %s", base, p.EnergyRating)
	default:
		return base
	}
}

// FormatMinor печатает сумму в минимальных единицах как десятичную строку.
func FormatMinor(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
