// Package api exposes the ledger over a JSON HTTP interface.
package api

import (
	"context"
	"net/http"

	"splitledger/internal/auth"
	"splitledger/internal/middleware"
	"splitledger/internal/models"
	"splitledger/internal/service"
)

// UserDirectory resolves user identities for the session endpoint.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Server routes API requests to the underlying services.
type Server struct {
	authSvc   *service.AuthService
	groupSvc  *service.GroupService
	ledgerSvc *service.LedgerService
	users     UserDirectory
	jwt       *auth.JWTManager
}

func NewServer(authSvc *service.AuthService, groupSvc *service.GroupService, ledgerSvc *service.LedgerService, users UserDirectory, jwt *auth.JWTManager) *Server {
	return &Server{
		authSvc:   authSvc,
		groupSvc:  groupSvc,
		ledgerSvc: ledgerSvc,
		users:     users,
		jwt:       jwt,
	}
}

// Handler returns the fully assembled handler chain. Metrics wraps each
// route inside the mux because the route pattern is only attached to
// requests the mux has already matched.
func (s *Server) Handler() http.Handler {
	requireAuth := middleware.RequireAuth(s.jwt)
	mux := http.NewServeMux()

	public := func(h http.HandlerFunc) http.Handler {
		return middleware.Metrics(h)
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.Metrics(requireAuth(h))
	}

	mux.Handle("POST /api/auth/register", public(s.handleRegister))
	mux.Handle("POST /api/auth/login", public(s.handleLogin))
	mux.Handle("GET /api/auth/session", protected(s.handleSession))

	mux.Handle("POST /api/groups", protected(s.handleCreateGroup))
	mux.Handle("GET /api/groups/{id}", protected(s.handleGetGroup))
	mux.Handle("DELETE /api/groups/{id}", protected(s.handleDeleteGroup))
	mux.Handle("POST /api/groups/{id}/members", protected(s.handleAddMember))

	mux.Handle("POST /api/expenses", protected(s.handleCreateExpense))
	mux.Handle("GET /api/expenses/group/{id}", protected(s.handleListExpenses))
	mux.Handle("DELETE /api/expenses/{id}", protected(s.handleDeleteExpense))

	mux.Handle("POST /api/settlements", protected(s.handleCreateSettlement))
	mux.Handle("GET /api/settlements/group/{id}", protected(s.handleListSettlements))

	mux.Handle("GET /api/balances/group/{id}", protected(s.handleGroupBalances))

	return middleware.Logging(middleware.CORS(mux))
}
