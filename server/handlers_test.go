package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/muntasir-dev/MusicStream/core/auth"
	"github.com/muntasir-dev/MusicStream/core/liberr"
)

func TestImportStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{liberr.ErrInvalidLocationFormat, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", liberr.ErrInvalidLocationFormat), http.StatusBadRequest},
		{liberr.ErrNoPlayableContent, http.StatusUnprocessableEntity},
		{liberr.ErrAlreadyImported, http.StatusConflict},
		{fmt.Errorf("%w: listing root: 503", liberr.ErrRemoteFetchFailed), http.StatusBadGateway},
		{errors.New("database gone"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := importStatus(tc.err); got != tc.want {
			t.Errorf("importStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	auth.SetSecret("test-secret")
	h := &APIHandler{}

	var gotUserID int64
	var called bool
	protected := h.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotUserID, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	token, err := auth.GenerateToken(42, "alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	cases := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called = false
			gotUserID = 0
			req := httptest.NewRequest(http.MethodGet, "/api/sources", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			protected(rr, req)

			if rr.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			if tc.wantStatus == http.StatusOK {
				if !called {
					t.Error("handler was not invoked for a valid token")
				}
				if gotUserID != 42 {
					t.Errorf("context user ID = %d, want 42", gotUserID)
				}
			} else if called {
				t.Error("handler must not run when authentication fails")
			}
		})
	}
}
