package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSlotTaken = errors.New("slot taken")

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: Court not found", NotFound("Court").Error())
	assert.Equal(t, "INTERNAL_ERROR: Failed to load court (caused by: dial tcp: refused)",
		Internal("Failed to load court", errors.New("dial tcp: refused")).Error())
}

func TestRejected_StatusPerCode(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{CodeOutsideHours, http.StatusUnprocessableEntity},
		{CodeInvalidDuration, http.StatusUnprocessableEntity},
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeSlotOccupied, http.StatusConflict},
		{CodeNoSectionAvailable, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := Rejected(errSlotTaken, tt.code, "rejected")

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.status, err.StatusCode())
			assert.ErrorIs(t, err, errSlotTaken)
			assert.False(t, err.Retryable())
		})
	}
}

func TestHasCode_WrappedChain(t *testing.T) {
	inner := Rejected(errSlotTaken, CodeSlotOccupied, "Slot already reserved")
	chain := fmt.Errorf("admit court tennis-1: %w", fmt.Errorf("attempt 2: %w", inner))

	assert.True(t, HasCode(chain, CodeSlotOccupied))
	assert.False(t, HasCode(chain, CodeBusy))
	assert.ErrorIs(t, chain, errSlotTaken)
	assert.False(t, HasCode(errSlotTaken, CodeSlotOccupied))
	assert.False(t, HasCode(nil, CodeSlotOccupied))
}

func TestConfiguration(t *testing.T) {
	cause := errors.New("reservation_duration must be positive")
	err := Configuration("Court is misconfigured", cause)

	assert.Equal(t, CodeConfiguration, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode())
	assert.ErrorIs(t, err, cause)
	assert.False(t, err.Retryable())
}

func TestRetryable(t *testing.T) {
	cause := errors.New("lock held")

	busy := Busy("Court is busy, retry shortly", cause)
	assert.Equal(t, http.StatusServiceUnavailable, busy.StatusCode())
	assert.ErrorIs(t, busy, cause)

	assert.True(t, busy.Retryable())
	assert.True(t, Unavailable("Invoice store").Retryable())
	assert.True(t, Timeout("Request timed out").Retryable())
	assert.False(t, Conflict("duplicate").Retryable())
	assert.False(t, InvalidInput("bad date").Retryable())
}

func TestInvalidState(t *testing.T) {
	cause := errors.New("reservation is cancelled")
	err := InvalidState(cause, CodeInvoiceAlreadyPaid, "Invoice already paid")

	assert.Equal(t, CodeInvoiceAlreadyPaid, err.Code)
	assert.Equal(t, http.StatusConflict, err.StatusCode())
	assert.ErrorIs(t, err, cause)
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Court", "Court_A")

	assert.Equal(t, http.StatusNotFound, err.StatusCode())
	assert.Equal(t, map[string]any{"resource": "Court", "id": "Court_A"}, err.Details)
}

func TestAsAppError(t *testing.T) {
	inner := Rejected(errSlotTaken, CodeSlotOccupied, "Slot already reserved")
	got := AsAppError(fmt.Errorf("wrapped: %w", inner))
	assert.Same(t, inner, got)
	assert.True(t, IsAppError(got))

	plain := errors.New("boom")
	fallback := AsAppError(plain)
	require.NotNil(t, fallback)
	assert.Equal(t, CodeInternal, fallback.Code)
	assert.ErrorIs(t, fallback, plain)
	assert.False(t, IsAppError(plain))
}
