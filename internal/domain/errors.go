package domain

import "errors"

var (
	// ErrUnknownCustomer — запрос ссылается на незарегистрированного покупателя;
	// фатально для вызова, состояние не меняется.
	ErrUnknownCustomer = errors.New("unknown customer")
	// ErrUnknownProduct — позиция ссылается на отсутствующий товар;
	// обрабатывается на уровне строки, остальной заказ не прерывает.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrInsufficientStock — запрошено больше, чем есть на складе.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrDuplicateProduct — регистрация товара с занятым идентификатором;
	// no-op с уведомлением, не жёсткий отказ.
	ErrDuplicateProduct = errors.New("product already registered")
	// ErrDuplicateCustomer — регистрация покупателя с занятым идентификатором.
	ErrDuplicateCustomer = errors.New("customer already registered")
	// ErrQuantityInvalid — неположительное количество; ошибка вызывающего кода.
	ErrQuantityInvalid = errors.New("quantity must be greater than zero")
	// ErrMalformedRecord — испорченная запись снапшота; загрузка падает сразу.
	ErrMalformedRecord = errors.New("malformed record")

	// Ошибка некорректного идентификатора заказа.
	ErrOrderIDInvalid = errors.New("order id must be greater than zero")
	// Ошибка отсутствующего идентификатора покупателя.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrLinesRequired = errors.New("order must contain at least one line")
	// Ошибка отсутствующей метки времени создания.
	ErrTimestampRequired = errors.New("created_at is required")
	// Ошибка при некорректном количестве в позиции (<= 0).
	ErrLineQtyInvalid = errors.New("line qty must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrLinePriceInvalid = errors.New("line price must be non-negative")

	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// IsLineLevel сообщает, относится ли ошибка к уровню отдельной позиции заказа.
// Такие ошибки собираются в результат размещения, а не прерывают вызов.
func IsLineLevel(err error) bool {
	return errors.Is(err, ErrUnknownProduct) || errors.Is(err, ErrInsufficientStock)
}
