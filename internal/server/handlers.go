package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/petrunov/gs-peachtree-bank/internal/apperrors"
	"github.com/petrunov/gs-peachtree-bank/internal/ledger"
	"github.com/petrunov/gs-peachtree-bank/internal/storage"
)

// Handler translates HTTP requests into ledger operations and renders the
// results. Business rules live in the ledger; the handler only does
// structural validation of the incoming request.
type Handler struct {
	ledger *ledger.Ledger
	store  storage.Store
	logger *slog.Logger
}

func NewHandler(l *ledger.Ledger, store storage.Store, logger *slog.Logger) *Handler {
	return &Handler{ledger: l, store: store, logger: logger}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		respondError(w, apperrors.Internal(apperrors.WithMessage("Store is unreachable"), apperrors.WithError(err)))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

var accountSortFields = map[string]bool{"account_number": true, "account_name": true, "created_at": true}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	opts, err := parseListOptions(r, accountSortFields)
	if err != nil {
		respondError(w, err)
		return
	}

	accounts, lerr := h.ledger.ListAccounts(r.Context(), opts)
	if lerr != nil {
		respondError(w, lerr)
		return
	}
	respondJSON(w, http.StatusOK, newAccountResponses(accounts))
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	account, lerr := h.ledger.GetAccount(r.Context(), id)
	if lerr != nil {
		respondError(w, lerr)
		return
	}
	respondJSON(w, http.StatusOK, newAccountResponse(*account))
}

var transactionSortFields = map[string]bool{"date": true, "amount": true, "beneficiary": true}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	opts, err := parseListOptions(r, transactionSortFields)
	if err != nil {
		respondError(w, err)
		return
	}
	opts.Search = r.URL.Query().Get("search")

	transactions, lerr := h.ledger.ListTransactions(r.Context(), opts)
	if lerr != nil {
		respondError(w, lerr)
		return
	}
	respondJSON(w, http.StatusOK, newTransactionResponses(transactions))
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	transaction, lerr := h.ledger.GetTransaction(r.Context(), id)
	if lerr != nil {
		respondError(w, lerr)
		return
	}
	respondJSON(w, http.StatusOK, newTransactionResponse(*transaction))
}

type createTransactionRequest struct {
	FromAccountID int64           `json:"from_account_id"`
	ToAccountID   int64           `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Beneficiary   string          `json:"beneficiary"`
	Description   string          `json:"description"`
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Validation(apperrors.WithMessage("No valid JSON data provided"), apperrors.WithError(err)))
		return
	}

	var opts []apperrors.Option
	if req.FromAccountID <= 0 {
		opts = append(opts, apperrors.WithFieldError("from_account_id", "from_account_id is required and must be a positive integer"))
	}
	if req.ToAccountID <= 0 {
		opts = append(opts, apperrors.WithFieldError("to_account_id", "to_account_id is required and must be a positive integer"))
	}
	if len(opts) > 0 {
		respondError(w, apperrors.Validation(opts...))
		return
	}

	transaction, err := h.ledger.Transfer(r.Context(), ledger.TransferInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Beneficiary:   req.Beneficiary,
		Description:   req.Description,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, newTransactionResponse(*transaction))
}

type updateTransactionRequest struct {
	State string `json:"state"`
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req updateTransactionRequest
	if derr := json.NewDecoder(r.Body).Decode(&req); derr != nil {
		respondError(w, apperrors.Validation(apperrors.WithMessage("No valid JSON data provided"), apperrors.WithError(derr)))
		return
	}

	transaction, lerr := h.ledger.UpdateTransactionState(r.Context(), id, req.State)
	if lerr != nil {
		respondError(w, lerr)
		return
	}
	respondJSON(w, http.StatusOK, newTransactionResponse(*transaction))
}

type searchResponse struct {
	Accounts     []accountResponse     `json:"accounts"`
	Transactions []transactionResponse `json:"transactions"`
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, apperrors.Validation(apperrors.WithFieldError("q", "Search query is required")))
		return
	}

	limit, offset, err := parsePagination(r)
	if err != nil {
		respondError(w, err)
		return
	}

	result, lerr := h.ledger.Search(r.Context(), query, limit, offset)
	if lerr != nil {
		respondError(w, lerr)
		return
	}
	respondJSON(w, http.StatusOK, searchResponse{
		Accounts:     newAccountResponses(result.Accounts),
		Transactions: newTransactionResponses(result.Transactions),
	})
}

func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation(apperrors.WithFieldError("id", "ID must be a positive integer"))
	}
	return id, nil
}

func parsePagination(r *http.Request) (limit, offset int, err error) {
	q := r.URL.Query()
	var opts []apperrors.Option

	limit = storage.MaxPageSize
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			opts = append(opts, apperrors.WithFieldError("limit", "limit must be a non-negative integer"))
		}
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			opts = append(opts, apperrors.WithFieldError("offset", "offset must be a non-negative integer"))
		}
	}

	if len(opts) > 0 {
		return 0, 0, apperrors.Validation(opts...)
	}
	return limit, offset, nil
}

func parseListOptions(r *http.Request, sortFields map[string]bool) (storage.ListOptions, error) {
	limit, offset, err := parsePagination(r)
	if err != nil {
		return storage.ListOptions{}, err
	}

	q := r.URL.Query()
	var opts []apperrors.Option

	sortBy := q.Get("sort_by")
	if sortBy != "" && !sortFields[sortBy] {
		opts = append(opts, apperrors.WithFieldError("sort_by", "sort_by must be one of the sortable fields"))
	}
	sortOrder := q.Get("sort_order")
	if sortOrder != "" && sortOrder != "asc" && sortOrder != "desc" {
		opts = append(opts, apperrors.WithFieldError("sort_order", "sort_order must be either asc or desc"))
	}

	if len(opts) > 0 {
		return storage.ListOptions{}, apperrors.Validation(opts...)
	}

	return storage.ListOptions{
		Limit:     limit,
		Offset:    offset,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}, nil
}
