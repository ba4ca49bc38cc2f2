package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "evagobi/internal/errors"
)

type runRequest struct {
	Steps     []string `json:"steps" validate:"omitempty,dive,oneof=generate prepare"`
	StartDate string   `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

func decode(t *testing.T, body string) (runRequest, error) {
	t.Helper()
	var dst runRequest
	req := httptest.NewRequest(http.MethodPost, "/api/operations/run", strings.NewReader(body))
	err := NewRequestValidator().Decode(httptest.NewRecorder(), req, &dst)
	return dst, err
}

func TestRequestValidator_Decode(t *testing.T) {
	got, err := decode(t, `{"steps":["generate"],"start_date":"2024-01-01"}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"generate"}, got.Steps)

	got, err = decode(t, ``)
	require.NoError(t, err)
	assert.Empty(t, got.Steps)
}

func TestRequestValidator_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		code  string
		field string
	}{
		{"malformed JSON", `{"steps":`, "INVALID_REQUEST", ""},
		{"unknown step", `{"steps":["deploy"]}`, "VALIDATION_FAILED", "steps[0]"},
		{"bad date", `{"start_date":"01/02/2024"}`, "VALIDATION_FAILED", "start_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(t, tt.body)
			require.Error(t, err)

			var apiErr *apierrors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			assert.Equal(t, tt.code, apiErr.ErrorCode)
			assert.Equal(t, tt.code == apierrors.ErrInvalidRequest.ErrorCode, errors.Is(err, apierrors.ErrInvalidRequest))
			if tt.field != "" {
				details, ok := apiErr.Details.([]apierrors.ValidationError)
				require.True(t, ok)
				require.Len(t, details, 1)
				assert.Equal(t, tt.field, details[0].Field)
			}
		})
	}
}

func TestContentTypeJSON(t *testing.T) {
	handler := ContentTypeJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`a=b`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
