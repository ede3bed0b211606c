package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrunov/gs-peachtree-bank/internal/apperrors"
)

func TestConstructorsCarryKindAndStatus(t *testing.T) {
	cases := []struct {
		err    *apperrors.Error
		kind   apperrors.Kind
		status int
	}{
		{apperrors.ResourceNotFound(), apperrors.KindResourceNotFound, http.StatusNotFound},
		{apperrors.Validation(), apperrors.KindValidation, http.StatusBadRequest},
		{apperrors.Authorization(), apperrors.KindAuthorization, http.StatusUnauthorized},
		{apperrors.RateLimited(), apperrors.KindRateLimit, http.StatusTooManyRequests},
		{apperrors.MethodNotAllowed(), apperrors.KindMethodNotAllowed, http.StatusMethodNotAllowed},
		{apperrors.Internal(), apperrors.KindInternal, http.StatusInternalServerError},
		{apperrors.Unexpected(), apperrors.KindUnexpected, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			assert.Equal(t, tc.kind, tc.err.Kind)
			assert.Equal(t, tc.status, tc.err.Status)
			assert.NotEmpty(t, tc.err.Message)
		})
	}
}

func TestWithMessage(t *testing.T) {
	err := apperrors.ResourceNotFound(apperrors.WithMessage("Account with ID 7 not found"))
	assert.Equal(t, "Account with ID 7 not found", err.Message)

	err = apperrors.ResourceNotFound(apperrors.WithMessagef("Account with ID %d not found", 9))
	assert.Equal(t, "Account with ID 9 not found", err.Message)
}

func TestWithFieldErrorAccumulates(t *testing.T) {
	err := apperrors.Validation(
		apperrors.WithFieldError("amount", "Amount must be a positive number"),
		apperrors.WithFieldError("amount", "Amount cannot have more than 2 decimal places"),
		apperrors.WithFieldError("beneficiary", "Beneficiary is required"),
	)

	require.Len(t, err.Details, 2)
	assert.Len(t, err.Details["amount"], 2)
	assert.Equal(t, []string{"Beneficiary is required"}, err.Details["beneficiary"])
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperrors.Internal(apperrors.WithError(cause))

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestClassify_PassesTaggedErrorsThrough(t *testing.T) {
	tagged := apperrors.Validation(apperrors.WithFieldError("state", "bad state"))

	classified := apperrors.Classify(fmt.Errorf("wrapped: %w", tagged))

	assert.Same(t, tagged, classified)
}

func TestClassify_DefaultsToUnexpected(t *testing.T) {
	classified := apperrors.Classify(errors.New("something odd"))

	assert.Equal(t, apperrors.KindUnexpected, classified.Kind)
	assert.Equal(t, http.StatusInternalServerError, classified.Status)
}
