package http

import (
	"net/http"

	"fintrack/internal/core"
)

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	if cached, ok := s.budgetCache.Get(uid); ok && uid != "" {
		writeJSON(w, http.StatusOK, newCategoryList(cached))
		return
	}

	cats, err := s.budgets.Categories(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}

	s.budgetCache.Set(uid, cats)
	writeJSON(w, http.StatusOK, newCategoryList(cats))
}

func (s *Server) handleAddBudget(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	cat, err := req.toCategory()
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := s.budgets.AddCategory(r.Context(), userID(r), cat)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidate(userID(r))
	writeJSON(w, http.StatusCreated, newCategoryResponse(created))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.budgets.DeleteCategory(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	s.invalidate(userID(r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePreviewSplit(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	percentage, err := core.ParsePercentage(req.Percentage)
	if err != nil {
		writeError(w, err)
		return
	}

	preview, err := s.budgets.PreviewSplit(r.Context(), userID(r), req.CategoryID, percentage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPreviewResponse(preview))
}

func (s *Server) handleSaveSplit(w http.ResponseWriter, r *http.Request) {
	var req splitRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	uid := userID(r)
	cats, err := s.budgets.Categories(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}

	cats, err = req.apply(cats)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.budgets.SaveSplit(r.Context(), uid, cats); err != nil {
		writeError(w, err)
		return
	}

	s.invalidate(uid)
	saved, err := s.budgets.Categories(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCategoryList(saved))
}

func (s *Server) handleResetSplit(w http.ResponseWriter, r *http.Request) {
	cats, err := s.budgets.ResetSplit(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidate(userID(r))
	writeJSON(w, http.StatusOK, newCategoryList(cats))
}
