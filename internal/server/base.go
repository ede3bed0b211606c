package server

import (
	"encoding/json"
	"net/http"

	"github.com/petrunov/gs-peachtree-bank/internal/apperrors"
	"github.com/petrunov/gs-peachtree-bank/internal/models"
)

// errorResponse is the fixed failure shape: {error, message, details}.
// Details is only populated for validation failures.
type errorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, err error) {
	appErr := apperrors.Classify(err)
	respondJSON(w, appErr.Status, errorResponse{
		Error:   string(appErr.Kind),
		Message: appErr.Message,
		Details: appErr.Details,
	})
}

type accountResponse struct {
	ID            int64  `json:"id"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	Balance       string `json:"balance"`
	Currency      string `json:"currency"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func newAccountResponse(a models.Account) accountResponse {
	return accountResponse{
		ID:            a.ID,
		AccountNumber: a.AccountNumber,
		AccountName:   a.AccountName,
		Balance:       a.Balance.StringFixed(2),
		Currency:      a.Currency,
		CreatedAt:     a.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:     a.UpdatedAt.UTC().Format(timeFormat),
	}
}

type transactionResponse struct {
	ID            int64  `json:"id"`
	Date          string `json:"date"`
	Amount        string `json:"amount"`
	FromAccountID int64  `json:"from_account_id"`
	ToAccountID   int64  `json:"to_account_id"`
	Beneficiary   string `json:"beneficiary"`
	Description   string `json:"description"`
	State         string `json:"state"`
}

func newTransactionResponse(t models.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		Date:          t.Date.UTC().Format(timeFormat),
		Amount:        t.Amount.StringFixed(2),
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Beneficiary:   t.Beneficiary,
		Description:   t.Description,
		State:         string(t.State),
	}
}

func newAccountResponses(accounts []models.Account) []accountResponse {
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, newAccountResponse(a))
	}
	return out
}

func newTransactionResponses(transactions []models.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, newTransactionResponse(t))
	}
	return out
}

const timeFormat = "2006-01-02T15:04:05.000Z07:00"
