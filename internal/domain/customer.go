package domain

// Customer — покупатель с упорядоченной историей заказов.
// История ключуется идентификатором заказа; порядок вставки сохраняется.
type Customer struct {
	ID   int64
	Name string

	orders  map[int64]Order
	orderID []int64
}

// NewCustomer создаёт покупателя с пустой историей.
func NewCustomer(id int64, name string) *Customer {
	return &Customer{
		ID:     id,
		Name:   name,
		orders: make(map[int64]Order),
	}
}

// PlaceOrder добавляет заказ в историю. Повторный заказ с тем же
// идентификатором перезаписывает значение, не меняя позицию в истории;
// корректный сервис заказов идентификаторы не переиспользует, так что
// в штатной работе это чистый append.
func (c *Customer) PlaceOrder(order Order) {
	if _, exists := c.orders[order.ID]; !exists {
		c.orderID = append(c.orderID, order.ID)
	}
	c.orders[order.ID] = order
}

// ListOrderIDs возвращает идентификаторы заказов в порядке размещения.
func (c *Customer) ListOrderIDs() []int64 {
	ids := make([]int64, len(c.orderID))
	copy(ids, c.orderID)
	return ids
}

// Order возвращает заказ из истории по идентификатору.
func (c *Customer) Order(id int64) (Order, bool) {
	order, ok := c.orders[id]
	return order, ok
}

// CustomerSummary — снимок покупателя для листингов наружу.
type CustomerSummary struct {
	ID       int64
	Name     string
	OrderIDs []int64
}

// Summary возвращает снимок покупателя с его историей заказов.
func (c *Customer) Summary() CustomerSummary {
	return CustomerSummary{
		ID:       c.ID,
		Name:     c.Name,
		OrderIDs: c.ListOrderIDs(),
	}
}
