package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestAuthMiddleware(t *testing.T) {
	var gotSubject any
	h := AuthMiddleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject = r.Context().Value(SubjectCtxKey)
		w.WriteHeader(http.StatusNoContent)
	}))

	valid := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{
		Subject:   "dashboard",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	expired := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{
		Subject:   "dashboard",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	wrongKey := sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{
		Subject:   "dashboard",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	noSubject := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	noExpiry := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{Subject: "dashboard"})
	wrongAlg := sign(t, jwt.SigningMethodHS512, []byte(secret), jwt.RegisteredClaims{
		Subject:   "dashboard",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + valid, http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong key", "Bearer " + wrongKey, http.StatusUnauthorized},
		{"no subject", "Bearer " + noSubject, http.StatusUnauthorized},
		{"no expiry", "Bearer " + noExpiry, http.StatusUnauthorized},
		{"wrong alg", "Bearer " + wrongAlg, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSubject = nil
			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, "dashboard", gotSubject)
			} else {
				assert.Nil(t, gotSubject)
			}
		})
	}
}
