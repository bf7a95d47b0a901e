package utils

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/senyabanana/sealed-tender/internal/models"
)

func TestStatusCode(t *testing.T) {
	cases := map[models.ErrorKind]int{
		models.KindInvalidInput:         http.StatusBadRequest,
		models.KindNotAuthorized:        http.StatusForbidden,
		models.KindNotFound:             http.StatusNotFound,
		models.KindPhaseViolation:       http.StatusConflict,
		models.KindDuplicateCommitment:  http.StatusConflict,
		models.KindAlreadyRevealed:      http.StatusConflict,
		models.KindHashMismatch:         http.StatusUnprocessableEntity,
		models.KindAuthorityUnavailable: http.StatusServiceUnavailable,
		0:                               http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := StatusCode(kind); got != want {
			t.Errorf("StatusCode(%s) = %d, want %d", kind, got, want)
		}
	}
}

func TestParseLimitOffset(t *testing.T) {
	cases := []struct {
		limit, offset string
		wantL, wantO  int
		ok            bool
	}{
		{"", "", 5, 0, true},
		{"10", "3", 10, 3, true},
		{"50", "0", 50, 0, true},
		{"0", "", 0, 0, false},
		{"51", "", 0, 0, false},
		{"x", "", 0, 0, false},
		{"", "-1", 0, 0, false},
	}
	for _, tc := range cases {
		l, o, err := ParseLimitOffset(tc.limit, tc.offset)
		if tc.ok != (err == nil) {
			t.Errorf("ParseLimitOffset(%q, %q) err = %v", tc.limit, tc.offset, err)
			continue
		}
		if tc.ok && (l != tc.wantL || o != tc.wantO) {
			t.Errorf("ParseLimitOffset(%q, %q) = %d, %d", tc.limit, tc.offset, l, o)
		}
		if !tc.ok && !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("ParseLimitOffset(%q, %q) err kind = %v", tc.limit, tc.offset, err)
		}
	}
}

func TestCallerAddress(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := CallerAddress(r); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("missing header: %v", err)
	}

	r.Header.Set(CallerHeader, "0xABCDEFabcdefABCDEFabcdefABCDEFabcdefABCD")
	addr, err := CallerAddress(r)
	if err != nil {
		t.Fatalf("CallerAddress: %v", err)
	}
	if addr != "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd" {
		t.Fatalf("addr = %s", addr)
	}
}

func TestSendErrorHidesUntypedErrors(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	w := httptest.NewRecorder()
	SendError(w, r, discardLogger(), fmt.Errorf("pool exhausted"))
	if w.Code != http.StatusInternalServerError || !contains(w.Body.String(), "internal server error") {
		t.Fatalf("untyped: %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	SendError(w, r, discardLogger(), models.HashMismatch(1, "0x01"))
	if w.Code != http.StatusUnprocessableEntity || !contains(w.Body.String(), `"kind":"HashMismatch"`) {
		t.Fatalf("typed: %d %s", w.Code, w.Body.String())
	}
}

func discardLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func contains(s, sub string) bool { return strings.Contains(s, sub) }
