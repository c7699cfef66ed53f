package domain

import (
	"fmt"
	"strings"
	"time"
)

// OrderLine — одна принятая позиция заказа.
type OrderLine struct {
	// ProductID — идентификатор товара каталога.
	ProductID int64
	// Name — имя товара на момент покупки.
	Name string
	// Qty — фактически списанное количество (> 0).
	Qty int64
	// PriceMinor — цена за единицу на момент покупки.
	PriceMinor int64
}

// Order — неизменяемая запись о совершённой покупке. Конструирует её
// только сервис размещения заказа; после создания запись не меняется.
type Order struct {
	// ID — монотонно растущий идентификатор, начинается с 1 и не переиспользуется.
	ID         int64
	CustomerID int64
	Lines      []OrderLine
	CreatedAt  time.Time
}

// TotalMinor возвращает сумму заказа в минимальных денежных единицах.
func (o Order) TotalMinor() int64 {
	var total int64
	for _, line := range o.Lines {
		total += line.Qty * line.PriceMinor
	}
	return total
}

// Summary возвращает человекочитаемую сводку заказа.
func (o Order) Summary() string {
	parts := make([]string, 0, len(o.Lines))
	for _, line := range o.Lines {
		parts = append(parts, fmt.Sprintf("%s (x%d)", line.Name, line.Qty))
	}
	return fmt.Sprintf("Order %d: %s, Total: $%s, Timestamp: %s",
		o.ID, strings.Join(parts, ", "), FormatMinor(o.TotalMinor()), o.CreatedAt.Format(time.RFC3339))
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o Order) ValidateInvariants() []error {
	var errs []error

	if o.ID <= 0 {
		errs = append(errs, ErrOrderIDInvalid)
	}
	if o.CustomerID <= 0 {
		errs = append(errs, ErrCustomerRequired)
	}
	if len(o.Lines) == 0 {
		errs = append(errs, ErrLinesRequired)
	}
	if o.CreatedAt.IsZero() {
		errs = append(errs, ErrTimestampRequired)
	}

	for _, line := range o.Lines {
		if line.Qty <= 0 {
			errs = append(errs, ErrLineQtyInvalid)
		}
		if line.PriceMinor < 0 {
			errs = append(errs, ErrLinePriceInvalid)
		}
	}

	return errs
}
