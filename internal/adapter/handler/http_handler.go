package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/rl1809/pos-journal/internal/core/analytics"
	"github.com/rl1809/pos-journal/internal/core/domain"
	"github.com/rl1809/pos-journal/internal/core/service"
	"github.com/rl1809/pos-journal/internal/logger"
)

type HTTPHandler struct {
	posService *service.POSService
	log        *logger.Logger
	gatherer   prometheus.Gatherer
}

type cartResponse struct {
	Items []domain.CartLine `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

type categoryResponse struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

type deleteResponse struct {
	ID      domain.SaleID `json:"id"`
	Deleted bool          `json:"deleted"`
}

type timeSeriesResponse struct {
	Granularity analytics.Granularity `json:"granularity"`
	Buckets     []analytics.Bucket    `json:"buckets"`
}

// NewHTTPHandler serves /metrics from gatherer, or from the default
// registry when gatherer is nil.
func NewHTTPHandler(posService *service.POSService, log *logger.Logger, gatherer prometheus.Gatherer) *HTTPHandler {
	if log == nil {
		log = logger.Nop()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &HTTPHandler{posService: posService, log: log, gatherer: gatherer}
}

func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		recoverer(h.log),
		requestID(h.log),
		requestLogger(h.log),
	)

	r.Get("/health", h.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", h.ListCatalog)
		r.Get("/categories", h.ListCategories)
		r.Get("/inventory", h.Inventory)

		r.Get("/cart", h.GetCart)
		r.Delete("/cart", h.ClearCart)
		r.Post("/cart/items", h.AddToCart)
		r.Post("/checkout", h.Checkout)

		r.Get("/sales", h.ListSales)
		r.Get("/sales/{id}", h.GetSale)
		r.Delete("/sales/{id}", h.DeleteSale)

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/summary", h.Summary)
			r.Get("/products", h.ProductSales)
			r.Get("/top", h.TopItems)
			r.Get("/categories", h.CategorySales)
			r.Get("/timeseries", h.TimeSeries)
		})
	})

	return r
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.posService.Products(r.URL.Query()["category"]...))
}

func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := h.posService.Categories()
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryResponse{Name: c, Label: domain.CategoryLabel(c)})
	}
	writeData(w, http.StatusOK, out)
}

func (h *HTTPHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.posService.Remaining())
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.cart())
}

func (h *HTTPHandler) cart() cartResponse {
	return cartResponse{Items: h.posService.Cart(), Total: h.posService.CartTotal()}
}

func (h *HTTPHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	_, err := h.posService.AddToCart(r.Context(), req.ItemName, req.Quantity)
	if err != nil && !service.IsPersistence(err) {
		writeServiceError(w, err)
		return
	}
	writeMutation(w, http.StatusOK, h.cart(), err)
}

func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	err := h.posService.ClearCart(r.Context())
	if err != nil && !service.IsPersistence(err) {
		writeServiceError(w, err)
		return
	}
	writeMutation(w, http.StatusOK, h.cart(), err)
}

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if r.ContentLength != 0 {
		if err := decodeJSONBody(r, &req); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	saleDate, err := service.ParseSaleDate(req.SaleDate, h.posService.Location())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	sale, err := h.posService.Checkout(r.Context(), saleDate)
	if err != nil && !service.IsPersistence(err) {
		writeServiceError(w, err)
		return
	}
	writeMutation(w, http.StatusCreated, sale, err)
}

func (h *HTTPHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.posService.SalesInPeriod(periodParam(r)))
}

func (h *HTTPHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	sale, err := h.posService.Sale(domain.SaleID(chi.URLParam(r, "id")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, sale)
}

func (h *HTTPHandler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	id := domain.SaleID(chi.URLParam(r, "id"))

	deleted, err := h.posService.DeleteTransaction(r.Context(), id)
	if err != nil && !service.IsPersistence(err) {
		writeServiceError(w, err)
		return
	}
	writeMutation(w, http.StatusOK, deleteResponse{ID: id, Deleted: deleted}, err)
}

func (h *HTTPHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.posService.Dashboard(periodParam(r)))
}

func (h *HTTPHandler) ProductSales(w http.ResponseWriter, r *http.Request) {
	sales := h.posService.SalesInPeriod(periodParam(r))
	writeData(w, http.StatusOK, analytics.AggregateByProduct(sales))
}

func (h *HTTPHandler) TopItems(w http.ResponseWriter, r *http.Request) {
	limit := analytics.DefaultTopLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	sales := h.posService.SalesInPeriod(periodParam(r))
	writeData(w, http.StatusOK, analytics.TopSellingItems(sales, limit))
}

func (h *HTTPHandler) CategorySales(w http.ResponseWriter, r *http.Request) {
	sales := h.posService.SalesInPeriod(periodParam(r))
	writeData(w, http.StatusOK, analytics.SalesByCategory(sales))
}

func (h *HTTPHandler) TimeSeries(w http.ResponseWriter, r *http.Request) {
	granularity := analytics.ParseGranularity(r.URL.Query().Get("granularity"))
	sales := h.posService.SalesInPeriod(periodParam(r))

	writeData(w, http.StatusOK, timeSeriesResponse{
		Granularity: granularity,
		Buckets:     analytics.TimeSeries(sales, granularity, h.posService.Location()),
	})
}

func periodParam(r *http.Request) analytics.Period {
	return analytics.ParsePeriod(r.URL.Query().Get("period"))
}
