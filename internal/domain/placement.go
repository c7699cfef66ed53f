package domain

// LineStatus — исход обработки одной запрошенной позиции.
type LineStatus string

const (
	// LineStatusAccepted — позиция списана со склада и вошла в заказ.
	LineStatusAccepted LineStatus = "accepted"
	// LineStatusUnknownProduct — товар с таким идентификатором не зарегистрирован.
	LineStatusUnknownProduct LineStatus = "unknown_product"
	// LineStatusInsufficientStock — остатка не хватило под запрошенное количество.
	LineStatusInsufficientStock LineStatus = "insufficient_stock"
)

// LineResult — результат по одной позиции запроса. Для отказа по стоку
// заполняются Requested и Available, чтобы вызывающий мог отчитаться.
type LineResult struct {
	ProductID int64
	Status    LineStatus
	Requested int64
	Available int64
}

// PlacementResult — итог размещения заказа. Частичное исполнение —
// штатный исход: Order создан, а отказавшие позиции перечислены в Lines.
// Если отказали все позиции, Order == nil, счётчик идентификаторов не сдвинут.
type PlacementResult struct {
	Order *Order
	Lines []LineResult
}

// Placed сообщает, был ли создан заказ.
func (r PlacementResult) Placed() bool {
	return r.Order != nil
}

// Rejected возвращает позиции, не вошедшие в заказ.
func (r PlacementResult) Rejected() []LineResult {
	rejected := make([]LineResult, 0, len(r.Lines))
	for _, line := range r.Lines {
		if line.Status != LineStatusAccepted {
			rejected = append(rejected, line)
		}
	}
	return rejected
}
