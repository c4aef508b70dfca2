package handlers

import (
	"net/http"

	"github.com/bankbroker/backend/internal/middleware"
	"github.com/bankbroker/backend/internal/service"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

type Handler struct {
	userService       service.UserService
	accountService    service.AccountService
	ledgerService     service.LedgerService
	withdrawalService service.WithdrawalService
	secretKey         string
}

func NewHandler(
	userService service.UserService,
	accountService service.AccountService,
	ledgerService service.LedgerService,
	withdrawalService service.WithdrawalService,
	secretKey string,
) *Handler {
	return &Handler{
		userService:       userService,
		accountService:    accountService,
		ledgerService:     ledgerService,
		withdrawalService: withdrawalService,
		secretKey:         secretKey,
	}
}

func NewRouter(handler *Handler, secretKey string) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.WithLogging())
	r.Use(middleware.WithGzip())
	r.Use(middleware.RateLimitMiddleware(middleware.NewUserRateLimiter(rate.Limit(10), 20)))

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Invalid URL format", http.StatusNotFound)
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Use(middleware.JWTMiddleware(secretKey))
		r.Get("/profile", handler.GetProfile)
		r.Put("/profile", handler.UpdateProfile)
		r.Get("/accounts", handler.GetAccounts)
		r.Get("/transactions", handler.GetTransactions)
		r.Post("/transactions", handler.CreateTransaction)
		r.Get("/withdrawals", handler.GetWithdrawals)
		r.Post("/withdrawals", handler.CreateWithdrawal)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.JWTMiddleware(secretKey))
		r.Use(middleware.AdminOnly)
		r.Get("/users", handler.GetUsers)
		r.Patch("/accounts", handler.UpdateAccountBalance)
		r.Get("/withdrawals", handler.GetAllWithdrawals)
		r.Patch("/withdrawals", handler.ProcessWithdrawal)
	})

	return r
}
