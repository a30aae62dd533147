package api

import (
	"maps"
	"net/http"
	"slices"

	"splitledger/internal/middleware"
	"splitledger/internal/models"
	"splitledger/internal/money"
)

type settlementResponse struct {
	ID          string `json:"id"`
	GroupID     string `json:"groupId"`
	FromUserID  string `json:"fromUserId"`
	ToUserID    string `json:"toUserId"`
	Amount      string `json:"amount"`
	AmountMinor int64  `json:"amountMinor"`
	CreatedAt   int64  `json:"createdAt"`
}

func toSettlementResponse(st *models.Settlement) settlementResponse {
	return settlementResponse{
		ID:          st.ID,
		GroupID:     st.GroupID,
		FromUserID:  st.FromUserID,
		ToUserID:    st.ToUserID,
		Amount:      money.FromMinorUnits(st.Amount),
		AmountMinor: st.Amount,
		CreatedAt:   st.CreatedAt,
	}
}

type transferResponse struct {
	FromUserID  string `json:"fromUserId"`
	ToUserID    string `json:"toUserId"`
	Amount      string `json:"amount"`
	AmountMinor int64  `json:"amountMinor"`
}

type balanceEntry struct {
	UserID      string `json:"userId"`
	Amount      string `json:"amount"`
	AmountMinor int64  `json:"amountMinor"`
}

// balancesResponse pairs net positions with the simplifier's suggested
// transfers. The transfers are advice: recording an actual payment is a
// separate settlement write.
type balancesResponse struct {
	GroupID     string             `json:"groupId"`
	Version     int64              `json:"version"`
	Balances    []balanceEntry     `json:"balances"`
	Settlements []transferResponse `json:"settlements"`
}

func (s *Server) handleCreateSettlement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID  string `json:"groupId"`
		ToUserID string `json:"toUserId"`
		Amount   string `json:"amount"`
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

	settlement, err := s.ledgerSvc.RecordSettlement(r.Context(), middleware.GetUserID(r.Context()),
		req.GroupID, req.ToUserID, amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSettlementResponse(settlement))
}

func (s *Server) handleListSettlements(w http.ResponseWriter, r *http.Request) {
	settlements, err := s.ledgerSvc.ListSettlements(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]settlementResponse, 0, len(settlements))
	for _, st := range settlements {
		out = append(out, toSettlementResponse(st))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGroupBalances(w http.ResponseWriter, r *http.Request) {
	view, err := s.ledgerSvc.Balances(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := balancesResponse{
		GroupID:     view.GroupID,
		Version:     view.Version,
		Balances:    make([]balanceEntry, 0, len(view.Balances)),
		Settlements: make([]transferResponse, 0, len(view.Transfers)),
	}
	ids := slices.Sorted(maps.Keys(view.Balances))
	for _, id := range ids {
		v := view.Balances[id]
		resp.Balances = append(resp.Balances, balanceEntry{
			UserID:      id,
			Amount:      money.FromMinorUnits(v),
			AmountMinor: v,
		})
	}
	for _, tr := range view.Transfers {
		resp.Settlements = append(resp.Settlements, transferResponse{
			FromUserID:  tr.FromUserID,
			ToUserID:    tr.ToUserID,
			Amount:      money.FromMinorUnits(tr.Amount),
			AmountMinor: tr.Amount,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
