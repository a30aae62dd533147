package api

import (
	"net/http"

	"splitledger/internal/middleware"
	"splitledger/internal/models"
	"splitledger/internal/money"
)

type expenseResponse struct {
	ID             string   `json:"id"`
	GroupID        string   `json:"groupId"`
	Description    string   `json:"description"`
	Amount         string   `json:"amount"`
	AmountMinor    int64    `json:"amountMinor"`
	PayerID        string   `json:"payerId"`
	ParticipantIDs []string `json:"participantIds"`
	CreatedAt      int64    `json:"createdAt"`
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	return expenseResponse{
		ID:             e.ID,
		GroupID:        e.GroupID,
		Description:    e.Description,
		Amount:         money.FromMinorUnits(e.Amount),
		AmountMinor:    e.Amount,
		PayerID:        e.PayerID,
		ParticipantIDs: e.ParticipantIDs,
		CreatedAt:      e.CreatedAt,
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID        string   `json:"groupId"`
		Description    string   `json:"description"`
		Amount         string   `json:"amount"`
		ParticipantIDs []string `json:"participantIds"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	amount, err := money.ToMinorUnits(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	expense, err := s.ledgerSvc.AddExpense(r.Context(), middleware.GetUserID(r.Context()),
		req.GroupID, req.Description, amount, req.ParticipantIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.ledgerSvc.ListExpenses(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	err := s.ledgerSvc.DeleteExpense(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
