package domain

import "fmt"

// ProductRecord — плоское представление товара для персистентного снапшота.
// Дискриминант категории и вариантные поля сохраняются как есть,
// чтобы при загрузке восстановить правильный вариант.
type ProductRecord struct {
	ID             int64
	Name           string
	Category       string
	PriceMinor     int64
	Stock          int64
	Sales          int64
	WarrantyMonths int32
	EnergyRating   string
}

// CustomerRecord — плоское представление покупателя для снапшота.
// История заказов в снапшот не входит, как и в исходной схеме хранения.
type CustomerRecord struct {
	ID   int64
	Name string
}

// Record возвращает сериализуемое представление товара.
func (p *Product) Record() ProductRecord {
	return ProductRecord{
		ID:             p.ID,
		Name:           p.Name,
		Category:       string(p.Category),
		PriceMinor:     p.PriceMinor,
		Stock:          p.Stock,
		Sales:          p.Sales,
		WarrantyMonths: p.WarrantyMonths,
		EnergyRating:   p.EnergyRating,
	}
}

// ProductFromRecord восстанавливает товар из записи снапшота.
// Конструктор выбирается по дискриминанту категории; нераспознанная
// или пустая категория даёт базовый вариант без вариантной нагрузки.
// Некорректные значения полей — это испорченный снапшот, ошибка фатальна.
func ProductFromRecord(rec ProductRecord) (*Product, error) {
	if rec.ID <= 0 {
		return nil, fmt.Errorf("%w: product id %d", ErrMalformedRecord, rec.ID)
	}
	if rec.Name == "" {
		return nil, fmt.Errorf("%w: product %d has empty name", ErrMalformedRecord, rec.ID)
	}
	if rec.PriceMinor < 0 {
		return nil, fmt.Errorf("%w: product %d has negative price", ErrMalformedRecord, rec.ID)
	}
	if rec.Stock < 0 {
		return nil, fmt.Errorf("%w: product %d has negative stock", ErrMalformedRecord, rec.ID)
	}
	if rec.Sales < 0 {
		return nil, fmt.Errorf("%w: product %d has negative sales", ErrMalformedRecord, rec.ID)
	}

	var p *Product
	switch Category(rec.Category) {
	case CategoryElectronics:
		p = NewElectronics(rec.ID, rec.Name, rec.PriceMinor, rec.Stock, rec.WarrantyMonths)
	case CategoryKitchen:
		p = NewKitchen(rec.ID, rec.Name, rec.PriceMinor, rec.Stock, rec.EnergyRating)
	default:
		category := Category(rec.Category)
		if rec.Category == "" {
			category = CategoryGeneric
		}
		p = NewProduct(rec.ID, rec.Name, category, rec.PriceMinor, rec.Stock)
	}
	p.Sales = rec.Sales
	return p, nil
}

// Record возвращает сериализуемое представление покупателя.
func (c *Customer) Record() CustomerRecord {
	return CustomerRecord{ID: c.ID, Name: c.Name}
}

// CustomerFromRecord восстанавливает покупателя из записи снапшота.
func CustomerFromRecord(rec CustomerRecord) (*Customer, error) {
	if rec.ID <= 0 {
		return nil, fmt.Errorf("%w: customer id %d", ErrMalformedRecord, rec.ID)
	}
	if rec.Name == "" {
		return nil, fmt.Errorf("%w: customer %d has empty name", ErrMalformedRecord, rec.ID)
	}
	return NewCustomer(rec.ID, rec.Name), nil
}
