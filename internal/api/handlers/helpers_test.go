package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"trip-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", domain.ErrInvalidInput), http.StatusBadRequest},
		{domain.ErrInvalidCoordinates, http.StatusBadRequest},
		{fmt.Errorf("calculate route: %w", domain.ErrInsufficientPlaces), http.StatusUnprocessableEntity},
		{domain.ErrPlaceNotFound, http.StatusNotFound},
		{domain.ErrNoRouteFound, http.StatusUnprocessableEntity},
		{domain.ErrModeUnsupported, http.StatusUnprocessableEntity},
		{domain.ErrProviderUnreachable, http.StatusBadGateway},
		{domain.ErrStalePlan, http.StatusConflict},
		{context.Canceled, statusClientClosedRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestWriteDomainErrorHidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/route", nil)

	writeDomainError(rec, req, errors.New("sql: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "sql")
	assert.Contains(t, rec.Body.String(), `"category":"internal"`)
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Mode string `json:"mode"`
	}

	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"valid", `{"mode":"WALKING"}`, false},
		{"malformed", `{"mode":`, true},
		{"unknown field", `{"mode":"WALKING","speed":3}`, true},
		{"trailing object", `{"mode":"WALKING"} {}`, true},
		{"too large", `{"mode":"` + strings.Repeat("a", maxBodyBytes) + `"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/mode", strings.NewReader(tt.payload))

			var dst body
			err := decodeJSON(rec, req, &dst)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "WALKING", dst.Mode)
		})
	}
}
