package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mirrortrade/backend/internal/copier"
	"github.com/mirrortrade/backend/internal/models"
	"github.com/mirrortrade/backend/internal/notifications"
	"github.com/mirrortrade/backend/internal/repository"
	"github.com/mirrortrade/backend/internal/stats"
)

const maxQueryLimit = 1000

// copyEngine is the core trade-copying surface the routes call into.
type copyEngine interface {
	CopyTrade(ctx context.Context, tradeID string) (*models.Trade, []models.CopiedTrade, error)
	CloseTrade(ctx context.Context, tradeID string, closePrice, profit float64) (*models.Trade, []models.CopiedTrade, error)
}

// statsRunner triggers a performance-aggregation batch.
type statsRunner interface {
	Run(ctx context.Context) ([]stats.Result, error)
}

type Server struct {
	pool       *pgxpool.Pool
	engine     copyEngine
	aggregator statsRunner

	userRepo          *repository.UserRepo
	tradeRepo         *repository.TradeRepo
	copiedTradeRepo   *repository.CopiedTradeRepo
	signalAccountRepo *repository.SignalAccountRepo
	tradeAccountRepo  *repository.TradeAccountRepo
	subscriptionRepo  *repository.SubscriptionRepo
	commentRepo       *repository.CommentRepo
	statsRepo         *repository.StatsRepo

	notify     *notifications.Sender
	httpServer *http.Server
	apiKey     string
}

func NewServer(pool *pgxpool.Pool, port int, apiKey, corsOrigin string, engine copyEngine, aggregator statsRunner, notify *notifications.Sender) *Server {
	s := &Server{
		pool:              pool,
		engine:            engine,
		aggregator:        aggregator,
		userRepo:          repository.NewUserRepo(pool),
		tradeRepo:         repository.NewTradeRepo(pool),
		copiedTradeRepo:   repository.NewCopiedTradeRepo(pool),
		signalAccountRepo: repository.NewSignalAccountRepo(pool),
		tradeAccountRepo:  repository.NewTradeAccountRepo(pool),
		subscriptionRepo:  repository.NewSubscriptionRepo(pool),
		commentRepo:       repository.NewCommentRepo(pool),
		statsRepo:         repository.NewStatsRepo(pool),
		notify:            notify,
		apiKey:            apiKey,
	}

	mux := http.NewServeMux()

	// Core trade-copying routes
	mux.HandleFunc("POST /v1/copy-trade", s.handleCopyTrade)
	mux.HandleFunc("POST /v1/close-trade", s.handleCloseTrade)
	mux.HandleFunc("POST /v1/update-performance-stats", s.handleUpdatePerformanceStats)

	// Trade routes
	mux.HandleFunc("POST /v1/trades", s.handleCreateTrade)
	mux.HandleFunc("GET /v1/trades", s.handleListTrades)
	mux.HandleFunc("GET /v1/copied-trades", s.handleListCopiedTrades)

	// User routes
	mux.HandleFunc("POST /v1/users", s.handleCreateUser)
	mux.HandleFunc("GET /v1/users/{id}", s.handleGetUser)

	// Account routes
	mux.HandleFunc("POST /v1/signal-accounts", s.handleCreateSignalAccount)
	mux.HandleFunc("GET /v1/signal-accounts", s.handleListSignalAccounts)
	mux.HandleFunc("GET /v1/signal-accounts/all", s.handleListActiveSignalAccounts)
	mux.HandleFunc("POST /v1/trade-accounts", s.handleCreateTradeAccount)
	mux.HandleFunc("GET /v1/trade-accounts", s.handleListTradeAccounts)

	// Subscription routes
	mux.HandleFunc("POST /v1/subscriptions", s.handleCreateSubscription)
	mux.HandleFunc("GET /v1/subscriptions", s.handleListSubscriptions)
	mux.HandleFunc("PATCH /v1/subscriptions/{id}", s.handleUpdateSubscription)
	mux.HandleFunc("GET /v1/subscriptions/{id}/links", s.handleListSubscriptionLinks)
	mux.HandleFunc("PATCH /v1/subscriptions/{id}/links/{linkID}", s.handleUpdateSubscriptionLink)

	// Comment routes
	mux.HandleFunc("POST /v1/comments", s.handleCreateComment)
	mux.HandleFunc("GET /v1/comments", s.handleListComments)

	// Performance routes
	mux.HandleFunc("GET /v1/performance-stats", s.handlePerformanceStats)
	mux.HandleFunc("GET /v1/performance-stats/top", s.handleTopPerformers)

	// Health check (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)

	handler := s.authMiddleware(corsMiddleware(mux, corsOrigin))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	fmt.Printf("[API] REST API server started on http://localhost%s\n", s.httpServer.Addr)
	fmt.Printf("[API] Health check: http://localhost%s/health\n", s.httpServer.Addr)
	if s.apiKey != "" {
		fmt.Println("[API] Authentication: enabled (Bearer token)")
	} else {
		fmt.Println("[API] Authentication: disabled (no API_KEY configured)")
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- request helpers ---

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func parseLimit(r *http.Request, defaultLimit int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultLimit
	}
	if n > maxQueryLimit {
		return maxQueryLimit
	}
	return n
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusForError maps the core error taxonomy to HTTP statuses while
// keeping the single {"error": msg} envelope.
func statusForError(err error) int {
	switch {
	case errors.Is(err, copier.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, copier.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
