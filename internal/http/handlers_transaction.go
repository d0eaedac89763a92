package http

import (
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/log"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.transactions.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTransactionList(txs))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	tx, err := req.toTransaction()
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := s.transactions.Create(r.Context(), userID(r), tx)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidate(userID(r))
	writeJSON(w, http.StatusCreated, newTransactionResponse(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	tx, err := req.toTransaction()
	if err != nil {
		writeError(w, err)
		return
	}
	tx.ID = r.PathValue("id")

	updated, err := s.transactions.Update(r.Context(), userID(r), tx)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidate(userID(r))
	writeJSON(w, http.StatusOK, newTransactionResponse(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.transactions.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	s.invalidate(userID(r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearTransactions(w http.ResponseWriter, r *http.Request) {
	if err := s.transactions.Clear(r.Context(), userID(r)); err != nil {
		writeError(w, err)
		return
	}

	s.invalidate(userID(r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecentTransactions(w http.ResponseWriter, r *http.Request) {
	n := 5
	if v := strings.TrimSpace(r.URL.Query().Get("n")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, errInvalidCount(v))
			return
		}
		n = parsed
	}

	txs, err := s.transactions.Recent(r.Context(), userID(r), n)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTransactionList(txs))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	if cached, ok := s.summaryCache.Get(uid); ok && uid != "" {
		writeJSON(w, http.StatusOK, newSummaryResponse(cached))
		return
	}

	summary, err := s.transactions.Summarize(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}

	s.summaryCache.Set(uid, summary)
	log.FromContext(r.Context()).DebugContext(r.Context(), "Summary cached", log.FieldUserID, uid)
	writeJSON(w, http.StatusOK, newSummaryResponse(summary))
}
