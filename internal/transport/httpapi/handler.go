// Package httpapi — REST-поверхность витрины. Хендлеры валидируют вход,
// транслируют доменные sentinel-ошибки в HTTP-статусы и ничего не знают
// о внутренней блокировке журнала.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/store"
)

// Handler обслуживает REST API магазина.
type Handler struct {
	store  *store.Service
	logger *log.Entry
}

// NewHandler создаёт хендлер поверх фасада магазина.
func NewHandler(svc *store.Service, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.New().WithField("component", "httpapi")
	}
	return &Handler{store: svc, logger: logger}
}

// Router собирает маршруты API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Post("/products", h.createProduct)
	r.Get("/products", h.listProducts)
	r.Post("/products/{id}/restock", h.restockProduct)

	r.Post("/customers", h.createCustomer)
	r.Get("/customers", h.listCustomers)

	r.Post("/orders", h.placeOrder)
	r.Get("/orders", h.listOrders)

	r.Get("/categories/overlap", h.categoryOverlap)

	return r
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// writeDomainError транслирует sentinel-ошибки домена в HTTP-статусы.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownCustomer), errors.Is(err, domain.ErrUnknownProduct):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrDuplicateProduct), errors.Is(err, domain.ErrDuplicateCustomer):
		writeError(w, http.StatusConflict, "already_registered", err.Error())
	case errors.Is(err, domain.ErrQuantityInvalid), errors.Is(err, domain.ErrMalformedRecord):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.logger.WithError(err).Error("unhandled domain error")
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

type productRequest struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	PriceMinor     int64  `json:"price_minor"`
	Stock          int64  `json:"stock"`
	WarrantyMonths int32  `json:"warranty_months,omitempty"`
	EnergyRating   string `json:"energy_rating,omitempty"`
}

type productResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	PriceMinor     int64  `json:"price_minor"`
	Stock          int64  `json:"stock"`
	Sales          int64  `json:"sales"`
	WarrantyMonths int32  `json:"warranty_months,omitempty"`
	EnergyRating   string `json:"energy_rating,omitempty"`
	Description    string `json:"description"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:             p.ID,
		Name:           p.Name,
		Category:       string(p.Category),
		PriceMinor:     p.PriceMinor,
		Stock:          p.Stock,
		Sales:          p.Sales,
		WarrantyMonths: p.WarrantyMonths,
		EnergyRating:   p.EnergyRating,
		Description:    p.Describe(),
	}
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ID <= 0 || req.Name == "" || req.PriceMinor < 0 || req.Stock < 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "id, name, non-negative price_minor and stock are required")
		return
	}

	var product *domain.Product
	switch domain.Category(req.Category) {
	case domain.CategoryElectronics:
		product = domain.NewElectronics(req.ID, req.Name, req.PriceMinor, req.Stock, req.WarrantyMonths)
	case domain.CategoryKitchen:
		product = domain.NewKitchen(req.ID, req.Name, req.PriceMinor, req.Stock, req.EnergyRating)
	case domain.CategoryGeneric, "":
		product = domain.NewProduct(req.ID, req.Name, domain.CategoryGeneric, req.PriceMinor, req.Stock)
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("unknown category %q", req.Category))
		return
	}

	if err := h.store.AddProduct(product); err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(*product))
}

func (h *Handler) listProducts(w http.ResponseWriter, _ *http.Request) {
	products := h.store.ListProducts()
	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

type restockRequest struct {
	Quantity int64 `json:"quantity"`
}

func (h *Handler) restockProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid product id")
		return
	}

	var req restockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.store.Restock(productID, req.Quantity); err != nil {
		h.writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type customerRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type customerResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	OrderIDs []int64 `json:"order_ids"`
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ID <= 0 || req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id and name are required")
		return
	}

	if err := h.store.AddCustomer(domain.NewCustomer(req.ID, req.Name)); err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, customerResponse{ID: req.ID, Name: req.Name, OrderIDs: []int64{}})
}

func (h *Handler) listCustomers(w http.ResponseWriter, _ *http.Request) {
	customers := h.store.ListCustomers()
	resp := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		orderIDs := c.OrderIDs
		if orderIDs == nil {
			orderIDs = []int64{}
		}
		resp = append(resp, customerResponse{ID: c.ID, Name: c.Name, OrderIDs: orderIDs})
	}
	writeJSON(w, http.StatusOK, resp)
}

type orderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type placeOrderRequest struct {
	CustomerID int64              `json:"customer_id"`
	Items      []orderItemRequest `json:"items"`
}

type lineResultResponse struct {
	ProductID int64  `json:"product_id"`
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`
}

type placeOrderResponse struct {
	OrderID     int64                `json:"order_id,omitempty"`
	TotalMinor  int64                `json:"total_minor,omitempty"`
	Summary     string               `json:"summary,omitempty"`
	LineResults []lineResultResponse `json:"line_results"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.CustomerID <= 0 || len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "customer_id and items are required")
		return
	}

	quantities := make(map[int64]int64, len(req.Items))
	for _, item := range req.Items {
		quantities[item.ProductID] += item.Quantity
	}

	result, err := h.store.PlaceOrder(req.CustomerID, quantities)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	resp := placeOrderResponse{LineResults: make([]lineResultResponse, 0, len(result.Lines))}
	for _, line := range result.Lines {
		lr := lineResultResponse{ProductID: line.ProductID, Status: string(line.Status)}
		if line.Status == domain.LineStatusInsufficientStock {
			lr.Detail = fmt.Sprintf("requested %d, available %d", line.Requested, line.Available)
		}
		resp.LineResults = append(resp.LineResults, lr)
	}

	status := http.StatusOK
	if result.Placed() {
		status = http.StatusCreated
		resp.OrderID = result.Order.ID
		resp.TotalMinor = result.Order.TotalMinor()
		resp.Summary = result.Order.Summary()
	}

	writeJSON(w, status, resp)
}

type orderResponse struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	TotalMinor int64     `json:"total_minor"`
	Summary    string    `json:"summary"`
	CreatedAt  time.Time `json:"created_at"`
}

func (h *Handler) listOrders(w http.ResponseWriter, _ *http.Request) {
	orders := h.store.ListOrders()
	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, orderResponse{
			ID:         o.ID,
			CustomerID: o.CustomerID,
			TotalMinor: o.TotalMinor(),
			Summary:    o.Summary(),
			CreatedAt:  o.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type overlapResponse struct {
	A          string  `json:"a"`
	B          string  `json:"b"`
	ProductIDs []int64 `json:"product_ids"`
}

func (h *Handler) categoryOverlap(w http.ResponseWriter, r *http.Request) {
	a := r.URL.Query().Get("a")
	b := r.URL.Query().Get("b")
	if a == "" || b == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "query parameters a and b are required")
		return
	}

	ids := h.store.CategoryOverlap(domain.Category(a), domain.Category(b))
	if ids == nil {
		ids = []int64{}
	}
	writeJSON(w, http.StatusOK, overlapResponse{A: a, B: b, ProductIDs: ids})
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("non-positive id %d", id)
	}
	return id, nil
}
