package http

import (
	"net/http"

	"fintrack/internal/export"
	"fintrack/internal/log"
)

// handleExport streams the user's full data set as CSV. The export is
// built from the live records, not from any cached view.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	txs, err := s.transactions.List(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	cats, err := s.budgets.Categories(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="fintrack_export.csv"`)
	if err := export.Write(w, txs, cats); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "CSV export failed",
			log.FieldUserID, uid,
			log.FieldError, err.Error())
	}
}
