package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alumac/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	serve := func(err error) *httptest.ResponseRecorder {
		engine := gin.New()
		h := &BaseHandler{}
		engine.GET("/", func(c *gin.Context) { h.HandleError(c, err) })

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		return w
	}

	tests := []struct {
		name         string
		err          error
		expectStatus int
		expectCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"already converted", shared.ErrAlreadyConverted, http.StatusConflict, "ALREADY_CONVERTED"},
		{"invalid input", shared.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{"document immutable", shared.ErrDocumentImmutable, http.StatusUnprocessableEntity, "DOCUMENT_IMMUTABLE"},
		{"ledger immutable", shared.ErrLedgerEntryImmutable, http.StatusUnprocessableEntity, "LEDGER_ENTRY_IMMUTABLE"},
		{"numbering contention", shared.ErrNumberingContention, http.StatusConflict, "NUMBERING_CONTENTION"},
		{"wrapped domain error", fmt.Errorf("save: %w", shared.ErrPaymentExceedsTotal), http.StatusUnprocessableEntity, "PAYMENT_EXCEEDS_BALANCE"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(tt.err)
			require.Equal(t, tt.expectStatus, w.Code)

			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.expectCode, body.Error.Code)
		})
	}
}
