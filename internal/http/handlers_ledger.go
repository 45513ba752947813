package http

import (
	"bytes"
	"net/http"

	"spendwise/internal/export"
)

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string][]string{"categories": s.ledger.Registry().Names()}).Write(w)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.Transactions(r.Context())
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().Body(export.TransactionRecords(txs)).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	in, err := transactionInput(p)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}

	tx, err := s.ledger.RecordTransaction(r.Context(), in)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	s.invalidateMonth(tx.Date.MonthKey())
	NewJSONResponse().Status(http.StatusCreated).Body(export.NewTransactionRecord(tx)).Write(w)
}

func (s *Server) handleTransactionsCSV(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.Transactions(r.Context())
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteTransactionsCSV(&buf, txs); err != nil {
		FromError(r, err).Write(w)
		return
	}
	writeCSV(w, "transactions.csv", buf.Bytes())
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	month, err := ParseMonthQuery(r.URL.Query())
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	budgets, err := s.ledger.Budgets(r.Context(), month)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().Body(export.BudgetRecords(budgets)).Write(w)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	in, err := budgetInput(p)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}

	b, err := s.ledger.SetBudget(r.Context(), in)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	s.invalidateMonth(b.Month)
	NewJSONResponse().Body(export.NewBudgetRecord(b)).Write(w)
}

func writeCSV(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
