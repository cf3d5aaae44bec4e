package httpapi

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/TemirB/shopping-cart/internal/application/service"
	"github.com/TemirB/shopping-cart/internal/domain"
	"github.com/TemirB/shopping-cart/internal/observability"
	"github.com/TemirB/shopping-cart/internal/receipt"
)

//go:generate mockgen -source internal/httpapi/httpapi.go -destination=internal/httpapi/httpapi_mock_test.go -package=httpapi

//go:embed templates/*.html
var templates embed.FS

// Currencies offered in the cart page selector. Any ISO code is accepted in
// the URL.
var Currencies = []string{"EUR", "USD", "GBP", "CNY"}

type CartService interface {
	MarketItems(ctx context.Context) ([]domain.MarketItem, error)
	AddItemWithStats(ctx context.Context, name string, quantity int) (domain.CartLine, service.MutationStats, error)
	RemoveItemWithStats(ctx context.Context, id int64) (service.MutationStats, error)
	ReceiptWithStats(ctx context.Context, currency string) (receipt.Receipt, service.ReceiptStats, error)
	UpdateItem(ctx context.Context, name string, price decimal.Decimal) error
}

type Server struct {
	service         CartService
	router          chi.Router
	pages           *template.Template
	logger          *zap.Logger
	metrics         observability.Metrics
	metricsHandler  http.Handler
	defaultCurrency string
}

type Option func(*Server)

func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metricsHandler = h }
}

func WithDefaultCurrency(code string) Option {
	return func(s *Server) {
		if c, err := domain.NormalizeCurrency(code); err == nil {
			s.defaultCurrency = c
		}
	}
}

func New(service CartService, logger *zap.Logger, metrics observability.Metrics, opts ...Option) *Server {
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	s := &Server{
		service:         service,
		logger:          logger,
		metrics:         metrics,
		defaultCurrency: domain.DefaultCurrency,
		pages: template.Must(template.New("").Funcs(template.FuncMap{
			"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
		}).ParseFS(templates, "templates/*.html")),
	}
	for _, o := range opts {
		o(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(ServerTimingApp(s.metrics))

	r.Get("/", s.index)
	r.Post("/", s.addItem)
	r.Get("/cart", s.cart)
	r.Post("/cart", s.cartForm)
	r.Get("/cart/{currency}", s.cart)
	r.Get("/delete/{id}/{currency}", s.removeItem)
	r.Post("/update", s.updateItems)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler)
	}
	s.router = r
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.MarketItems(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, "index.html", map[string]any{"Items": items})
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.PostFormValue("items"))
	qty, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("product_quantity")))
	if err != nil {
		http.Error(w, "product_quantity must be an integer", http.StatusBadRequest)
		return
	}

	_, st, err := s.service.AddItemWithStats(r.Context(), name, qty)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	observability.AddTimings(w.Header(), observability.Timing{Name: "job", Ms: st.WaitMs})
	w.Header().Set("X-Job-Attempts", strconv.Itoa(st.Attempts))
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (s *Server) cart(w http.ResponseWriter, r *http.Request) {
	s.receipt(w, r, chi.URLParam(r, "currency"))
}

func (s *Server) cartForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	s.receipt(w, r, r.PostFormValue("currency_type"))
}

func (s *Server) receipt(w http.ResponseWriter, r *http.Request, currency string) {
	if strings.TrimSpace(currency) == "" {
		currency = s.defaultCurrency
	}

	rec, st, err := s.service.ReceiptWithStats(r.Context(), currency)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	observability.AddTimings(w.Header(),
		observability.Timing{Name: "store", Ms: st.StoreMs},
		observability.Timing{Name: "compute", Ms: st.ComputeMs},
	)
	w.Header().Set("X-Currency", rec.Currency)

	if wantsJSON(r) {
		writeJSON(w, rec)
		return
	}
	s.render(w, "cart.html", map[string]any{
		"Currency":   rec.Currency,
		"Lines":      rec.Lines,
		"Total":      rec.Total,
		"Currencies": Currencies,
	})
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "item id must be an integer", http.StatusBadRequest)
		return
	}
	currency, err := domain.NormalizeCurrency(chi.URLParam(r, "currency"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	st, err := s.service.RemoveItemWithStats(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	observability.AddTimings(w.Header(), observability.Timing{Name: "job", Ms: st.WaitMs})
	http.Redirect(w, r, "/cart/"+currency, http.StatusSeeOther)
}

type priceUpdate struct {
	name  string
	price decimal.Decimal
}

func (s *Server) updateItems(w http.ResponseWriter, r *http.Request) {
	updates, err := decodePriceUpdates(r.Body)
	if err != nil {
		s.logger.Error("Error while decoding JSON", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	names := make([]string, 0, len(updates))
	for _, u := range updates {
		if err := s.service.UpdateItem(r.Context(), u.name, u.price); err != nil {
			s.writeError(w, r, err)
			return
		}
		names = append(names, u.name)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintf(w, "The price of %v have been updated.", names)
}

// decodePriceUpdates reads a {"name": price, ...} object keeping the body
// order. Every price is validated before anything is applied.
func decodePriceUpdates(body io.Reader) ([]priceUpdate, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("bad json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("bad json: expected an object of name to price")
	}

	var out []priceUpdate
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("bad json: %w", err)
		}
		name, _ := tok.(string)

		var num json.Number
		if err := dec.Decode(&num); err != nil {
			return nil, fmt.Errorf("bad price for %q: %w", name, err)
		}
		price, err := decimal.NewFromString(num.String())
		if err != nil {
			return nil, fmt.Errorf("bad price for %q: %w", name, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("negative price for %q", name)
		}
		out = append(out, priceUpdate{name: name, price: price})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("bad json: %w", err)
	}
	return out, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidCurrency):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUnknownCurrency):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateSourceUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrJobTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "Service error"
	}
	s.logger.Warn("request failed",
		zap.String("path", r.URL.Path),
		zap.Int("status", code),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	http.Error(w, msg, code)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("render failed", zap.String("template", name), zap.Error(err))
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Accept")), "application/json")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Handler() http.Handler { return s.router }
