package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/riskibarqy/esports-hub/internal/domain/storage"
)

func TestWriteError(t *testing.T) {
	t.Run("unique violation becomes conflict", func(t *testing.T) {
		err := writeError("insert match", fmt.Errorf("exec: %w", &pq.Error{Code: pqUniqueViolation, Message: "duplicate key"}))
		if !errors.Is(err, storage.ErrConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("other errors stay wrapped", func(t *testing.T) {
		cause := &pq.Error{Code: "23503", Message: "foreign key"}
		err := writeError("insert match", cause)
		if errors.Is(err, storage.ErrConflict) {
			t.Fatalf("foreign key violation must not be a conflict")
		}
		var pqErr *pq.Error
		if !errors.As(err, &pqErr) {
			t.Fatalf("expected pq error preserved, got %v", err)
		}
	})

	t.Run("nil stays nil", func(t *testing.T) {
		if err := writeError("noop", nil); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(errors.New("boom")) {
		t.Fatalf("expected unrelated error to be found")
	}
}

func TestJSONMapRoundTrip(t *testing.T) {
	if got := encodeJSONMap(nil); got != "{}" {
		t.Fatalf("expected empty object, got %s", got)
	}
	decoded := decodeJSONMap(encodeJSONMap(map[string]any{"ultimates_used": 3}))
	if decoded["ultimates_used"] != float64(3) {
		t.Fatalf("unexpected decoded map: %+v", decoded)
	}
	if decodeJSONMap("not json") != nil {
		t.Fatalf("expected nil for malformed json")
	}
}

func TestNullableHelpers(t *testing.T) {
	if v := nullableString("  "); v.Valid {
		t.Fatalf("blank string must be null")
	}
	rounds := 7
	if got := intPtr(nullableInt(&rounds)); got == nil || *got != 7 {
		t.Fatalf("unexpected int round trip: %v", got)
	}
	if intPtr(nullableInt(nil)) != nil {
		t.Fatalf("nil int must stay nil")
	}
}

func TestSavepointName(t *testing.T) {
	tests := map[string]string{
		"record_3":         "sp_record_3",
		"Record-4; DROP x": "sp_record_4__drop_x",
		"":                 "sp_",
	}
	for in, want := range tests {
		if got := savepointName(in); got != want {
			t.Fatalf("savepointName(%q) = %q, want %q", in, got, want)
		}
	}
}
