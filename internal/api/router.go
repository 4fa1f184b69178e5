// Package api exposes the store, receipts and order emails over HTTP.
package api

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/safar/gymwear-api/internal/models"
	"github.com/safar/gymwear-api/internal/store"
)

// ReceiptRenderer turns an order into a printable document.
type ReceiptRenderer interface {
	Generate(order *models.Order) ([]byte, error)
}

// Notifier sends an order status email.
type Notifier interface {
	Notify(ctx context.Context, recipient string, orderID int64, status string) error
}

// OrderLookup loads the aggregates the receipt and email endpoints need.
type OrderLookup interface {
	Order(ctx context.Context, id int64) (*models.Order, error)
	User(ctx context.Context, id int64) (*models.User, error)
}

type dbLookup struct {
	db *sql.DB
}

func (l dbLookup) Order(ctx context.Context, id int64) (*models.Order, error) {
	return store.GetOrder(ctx, l.db, id)
}

func (l dbLookup) User(ctx context.Context, id int64) (*models.User, error) {
	return store.GetUser(ctx, l.db, id)
}

type Deps struct {
	DB       *sql.DB
	Receipts ReceiptRenderer
	Notifier Notifier
	Logger   *slog.Logger

	// Lookup defaults to reading DB.
	Lookup OrderLookup

	CORS           CORSConfig
	RequestTimeout time.Duration

	// EmailLimiter caps POST /api/orders/{id}/email. Nil means unlimited.
	EmailLimiter *rate.Limiter
}

type Handler struct {
	db       *sql.DB
	receipts ReceiptRenderer
	notifier Notifier
	lookup   OrderLookup
	logger   *slog.Logger
}

func NewHandler(deps Deps) *Handler {
	lookup := deps.Lookup
	if lookup == nil {
		lookup = dbLookup{db: deps.DB}
	}
	return &Handler{
		db:       deps.DB,
		receipts: deps.Receipts,
		notifier: deps.Notifier,
		lookup:   lookup,
		logger:   deps.Logger,
	}
}

func NewRouter(deps Deps) http.Handler {
	h := NewHandler(deps)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(requestLogging(deps.Logger))
	r.Use(recovery(deps.Logger))
	r.Use(metrics)
	r.Use(cors(deps.CORS))

	r.Get("/health/live", h.live)
	r.Get("/health/ready", h.ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if deps.RequestTimeout > 0 {
			r.Use(chimw.Timeout(deps.RequestTimeout))
		}

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.listUsers)
			r.Post("/", h.createUser)
			r.Get("/{id}", h.getUser)
			r.Put("/{id}", h.updateUser)
			r.Delete("/{id}", h.deleteUser)
			r.Get("/{id}/orders", h.listUserOrders)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.listCategories)
			r.Post("/", h.createCategory)
			r.Get("/{id}", h.getCategory)
			r.Put("/{id}", h.updateCategory)
			r.Delete("/{id}", h.deleteCategory)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Post("/", h.createProduct)
			r.Get("/{id}", h.getProduct)
			r.Put("/{id}", h.updateProduct)
			r.Delete("/{id}", h.deleteProduct)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.listOrders)
			r.Post("/", h.createOrder)
			r.Get("/{id}", h.getOrder)
			r.Put("/{id}", h.updateOrder)
			r.Delete("/{id}", h.deleteOrder)
			r.Get("/{id}/pdf", h.orderReceipt)
			r.With(emailLimit(deps.EmailLimiter)).Post("/{id}/email", h.orderEmail)
		})
	})

	return r
}

func emailLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	if limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return limit(limiter)
}

func (h *Handler) live(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "up"})
}

func (h *Handler) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.db == nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down", "error": "no database"})
		return
	}
	if err := h.db.PingContext(ctx); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down", "error": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "up"})
}
