package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/esports-hub/internal/usecase"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestWriteSuccess_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatalf("expected success=true, got %v", body["success"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
	if body["message"] != "invalid input: bad payload" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestWriteError_FieldDetails(t *testing.T) {
	verr := &usecase.ValidationError{}
	verr.Add("team1_score", "must be at most %d", 2)

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, verr)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	errorObj, _ := decodeBody(t, rec)["error"].(map[string]any)
	fields, _ := errorObj["fields"].([]any)
	if len(fields) != 1 {
		t.Fatalf("expected one field error, got %v", errorObj["fields"])
	}
	if f, _ := fields[0].(map[string]any); f["field"] != "team1_score" {
		t.Fatalf("unexpected field error %v", f)
	}
}

func TestWriteError_RedactsServerErrors(t *testing.T) {
	leaky := errors.New("pq: password authentication failed for user esports")

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, leaky)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != internalErrorMessage {
		t.Fatalf("expected redacted message, got %v", msg)
	}

	rec = httptest.NewRecorder()
	writeError(withErrorDetail(context.Background()), rec, leaky)
	if msg := decodeBody(t, rec)["message"]; msg != leaky.Error() {
		t.Fatalf("expected detailed message in dev, got %v", msg)
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: fmt.Errorf("%w: x", usecase.ErrInvalidInput), want: http.StatusBadRequest},
		{err: fmt.Errorf("%w: x", usecase.ErrUnauthorized), want: http.StatusUnauthorized},
		{err: fmt.Errorf("%w: x", usecase.ErrForbidden), want: http.StatusForbidden},
		{err: fmt.Errorf("%w: x", usecase.ErrNotFound), want: http.StatusNotFound},
		{err: fmt.Errorf("%w: x", usecase.ErrConflict), want: http.StatusConflict},
		{err: fmt.Errorf("%w: x", usecase.ErrDependencyUnavailable), want: http.StatusServiceUnavailable},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		if got := mapError(context.Background(), tc.err).HTTPStatus; got != tc.want {
			t.Fatalf("mapError(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
