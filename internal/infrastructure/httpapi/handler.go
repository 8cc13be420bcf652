package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/modaworks/clothestore/internal/application/checkout"
	"github.com/modaworks/clothestore/internal/domain/cart"
	"github.com/modaworks/clothestore/internal/domain/catalog"
	"github.com/modaworks/clothestore/internal/domain/identity"
	domorder "github.com/modaworks/clothestore/internal/domain/order"
	"github.com/modaworks/clothestore/internal/domain/payment"
)

// Handler is the thin adapter between HTTP and the checkout core. It carries
// no business rules: it builds a cart from catalog price snapshots, translates
// requests into Checkout/Pay/Cancel calls and maps the error taxonomy onto
// status codes.
type Handler struct {
	service *checkout.Service
	catalog catalog.Store
}

func NewHandler(service *checkout.Service, cat catalog.Store) *Handler {
	return &Handler{service: service, catalog: cat}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/checkout", h.method(http.MethodPost, h.handleCheckout))
	mux.HandleFunc("/orders/pay", h.method(http.MethodPost, h.handlePay))
	mux.HandleFunc("/orders/cancel", h.method(http.MethodPost, h.handleCancel))
	mux.HandleFunc("/orders", h.method(http.MethodGet, h.handleGetOrder))
	mux.HandleFunc("/products", h.method(http.MethodGet, h.handleGetProduct))
	mux.HandleFunc("/health", h.method(http.MethodGet, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))

	return mux
}

type checkoutLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type checkoutRequest struct {
	Lines             []checkoutLine `json:"lines"`
	ShippingAddressID string         `json:"shipping_address_id"`
}

type orderItemResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type orderResponse struct {
	OrderID           string              `json:"order_id"`
	Status            domorder.Status     `json:"status"`
	Items             []orderItemResponse `json:"items"`
	Total             string              `json:"total"`
	ShippingAddressID string              `json:"shipping_address_id"`
	FailureReason     string              `json:"failure_reason,omitempty"`
}

func toOrderResponse(o *domorder.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.StringFixed(2),
		}
	}
	return orderResponse{
		OrderID:           o.ID,
		Status:            o.Status,
		Items:             items,
		Total:             o.Total().StringFixed(2),
		ShippingAddressID: o.ShippingAddressID,
		FailureReason:     o.FailureReason,
	}
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// Populate the cart from catalog snapshots: the price each line carries
	// is the price the customer saw at this moment.
	c := cart.New("")
	for _, line := range req.Lines {
		p, err := h.catalog.Product(r.Context(), line.ProductID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if err := c.Add(p.ID, line.Quantity, p.Price); err != nil {
			writeDomainError(w, err)
			return
		}
	}

	o, err := h.service.Checkout(r.Context(), c, req.ShippingAddressID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

type payRequest struct {
	OrderID string `json:"order_id"`
	Method  struct {
		Kind   string `json:"kind"`
		Holder string `json:"holder"`
		Number string `json:"number,omitempty"`
		Expiry string `json:"expiry,omitempty"`
		IBAN   string `json:"iban,omitempty"`
	} `json:"method"`
}

func (h *Handler) handlePay(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var (
		method payment.Method
		err    error
	)
	switch payment.MethodKind(req.Method.Kind) {
	case payment.MethodCreditCard:
		method, err = payment.NewCreditCard(req.Method.Holder, req.Method.Number, req.Method.Expiry)
	case payment.MethodBankTransfer:
		method, err = payment.NewBankTransfer(req.Method.Holder, req.Method.IBAN)
	default:
		err = payment.ErrIncompleteMethod
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	o, err := h.service.Pay(r.Context(), req.OrderID, method)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

type cancelRequest struct {
	OrderID string `json:"order_id"`
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	o, err := h.service.Cancel(r.Context(), req.OrderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Order(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

type productResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int    `json:"stock"`
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Product(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productResponse{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price.StringFixed(2),
		Stock: p.Stock,
	})
}

func (h *Handler) method(method string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
			return
		}
		handler(w, r)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domorder.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, identity.ErrAddressNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, checkout.ErrPaymentFailed):
		writeError(w, http.StatusPaymentRequired, err)
	case errors.Is(err, domorder.ErrInvalidStateTransition),
		errors.Is(err, catalog.ErrInsufficientStock):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrProductUnavailable),
		errors.Is(err, checkout.ErrNotCartOwner),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, catalog.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
