package errors_test

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperror "estoque/internal/errors"
)

func TestMapToHTTPStatus_TypedErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		status   int
		category string
		message  string
	}{
		{"validation", apperror.NewValidationError("nome obrigatório"), http.StatusBadRequest, "VALIDATION_ERROR", "nome obrigatório"},
		{"not found", apperror.NewNotFoundError("produto p1"), http.StatusNotFound, "NOT_FOUND", "produto p1"},
		{"duplicate", apperror.NewConflictError("ID já existe"), http.StatusConflict, "DUPLICATE_KEY", "ID já existe"},
		{"internal", apperror.NewDBError("falha", sql.ErrConnDone), http.StatusInternalServerError, "INTERNAL_ERROR", "Ocorreu um erro inesperado."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, category, message := apperror.MapToHTTPStatus(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.category, category)
			assert.Equal(t, tc.message, message)
		})
	}
}

func TestMapToHTTPStatus_WrappedError(t *testing.T) {
	wrapped := fmt.Errorf("camada de serviço: %w", apperror.NewNotFoundError("local l9"))

	status, category, _ := apperror.MapToHTTPStatus(wrapped)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", category)
	assert.True(t, apperror.IsNotFound(wrapped))
	assert.False(t, apperror.IsValidation(wrapped))
}

func TestMapToHTTPStatus_UntypedError(t *testing.T) {
	status, category, _ := apperror.MapToHTTPStatus(fmt.Errorf("boom"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "UNKNOWN_ERROR", category)
}

func TestDuplicateKeyError_Unwraps(t *testing.T) {
	cause := fmt.Errorf("pq: duplicate key value")
	err := apperror.NewDuplicateKeyError("ID já existe", cause)

	assert.True(t, apperror.IsConflict(err))
	assert.ErrorIs(t, err, cause)
}
