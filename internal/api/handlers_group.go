package api

import (
	"net/http"

	"splitledger/internal/middleware"
	"splitledger/internal/models"
)

type memberResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

type groupResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	CreatedBy     string           `json:"createdBy"`
	Members       []memberResponse `json:"members"`
	LedgerVersion int64            `json:"ledgerVersion"`
	CreatedAt     int64            `json:"createdAt"`
}

func toGroupResponse(g *models.Group) groupResponse {
	members := make([]memberResponse, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, memberResponse{ID: m.ID, DisplayName: m.DisplayName, Email: m.Email})
	}
	return groupResponse{
		ID:            g.ID,
		Name:          g.Name,
		CreatedBy:     g.CreatedBy,
		Members:       members,
		LedgerVersion: g.LedgerVersion,
		CreatedAt:     g.CreatedAt,
	}
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	group, err := s.groupSvc.CreateGroup(r.Context(), middleware.GetUserID(r.Context()), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.groupSvc.GetGroup(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	err := s.groupSvc.DeleteGroup(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Email == "" {
		writeBadRequest(w, "email is required")
		return
	}

	group, err := s.groupSvc.AddMember(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}
