package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/search"
	"fintrack/internal/services"
	"fintrack/internal/store"
	"fintrack/internal/transfer"
)

// transactionRequest is the write payload for create and update. Amount is
// raw so clients may send it as a JSON number or a string; validation sees
// the digits either way.
type transactionRequest struct {
	Description string          `json:"description"`
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
}

func (req transactionRequest) input() services.TransactionInput {
	return services.TransactionInput{
		Description: req.Description,
		Amount:      rawString(req.Amount),
		Category:    req.Category,
		Date:        req.Date,
	}
}

// rawString unwraps a JSON string, or returns the raw token for numbers.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

type listResponse struct {
	Transactions []core.Transaction `json:"transactions"`
	Count        int                `json:"count"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// listTransactions returns the collection, optionally reordered by ?sort and
// ?dir, filtered by the ?q regex, and highlighted with <mark> markers when
// ?highlight=true. An empty ?q is not an error; an invalid one is.
func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if key := query.Get("sort"); key != "" {
		dir := store.Ascending
		if d := query.Get("dir"); d != "" {
			dir = store.Direction(d)
		}
		if err := s.store.SortBy(store.SortKey(key), dir); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	}

	txs := s.store.List()

	caseSensitive, _ := strconv.ParseBool(query.Get("case_sensitive"))
	matcher, err := search.Compile(query.Get("q"), caseSensitive)
	if err != nil {
		writeError(w, r, err)
		return
	}
	txs = search.Filter(txs, matcher)

	if highlight, _ := strconv.ParseBool(query.Get("highlight")); highlight && matcher != nil {
		for i := range txs {
			txs[i].Description = search.Highlight(txs[i].Description, matcher)
			txs[i].Category = search.Highlight(txs[i].Category, matcher)
		}
	}

	writeJSON(w, http.StatusOK, listResponse{Transactions: txs, Count: len(txs)})
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	tx, err := s.service.Create(r.Context(), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateStats()
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/transactions/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		tx, err := s.store.FindByID(id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tx)

	case http.MethodPut:
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		tx, err := s.service.Update(r.Context(), id, req.input())
		if err != nil {
			writeError(w, r, err)
			return
		}
		s.invalidateStats()
		writeJSON(w, http.StatusOK, tx)

	case http.MethodDelete:
		if err := s.service.Delete(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		s.invalidateStats()
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, "GET, PUT, DELETE")
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	if stats, ok := s.statsCache.Get(statsCacheKey); ok {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Stats cache hit")
		writeJSON(w, http.StatusOK, stats)
		return
	}

	stats, err := s.service.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.statsCache.Set(statsCacheKey, stats)
	writeJSON(w, http.StatusOK, stats)
}

type budgetResponse struct {
	Set    bool        `json:"set"`
	Budget *core.Money `json:"budget,omitempty"`
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		budget, set, err := s.store.Budget(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp := budgetResponse{Set: set}
		if set {
			resp.Budget = &budget
		}
		writeJSON(w, http.StatusOK, resp)

	case http.MethodPut:
		var req struct {
			Budget json.RawMessage `json:"budget"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		if err := s.store.SetBudget(r.Context(), rawString(req.Budget)); err != nil {
			writeError(w, r, err)
			return
		}
		s.invalidateStats()
		budget, set, err := s.store.Budget(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp := budgetResponse{Set: set}
		if set {
			resp.Budget = &budget
		}
		writeJSON(w, http.StatusOK, resp)

	default:
		methodNotAllowed(w, "GET, PUT")
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	data, err := transfer.Export(s.store.List())
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body too large or unreadable"})
		return
	}

	added, err := transfer.Import(r.Context(), s.store, body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateStats()
	writeJSON(w, http.StatusOK, map[string]int{
		"added": added,
		"count": s.store.Count(),
	})
}
