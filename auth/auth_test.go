package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRequest(t *testing.T, uid uint) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	CreateSession(rec, uid)
	req := httptest.NewRequest(http.MethodGet, "/api/buildings/units", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSessionRoundTrip(t *testing.T) {
	uid, ok := ParseSession(sessionRequest(t, 42))
	require.True(t, ok)
	assert.Equal(t, uint(42), uid)
}

func TestParseSessionRejectsTampering(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "1." + sign("2")})
	_, ok := ParseSession(req)
	assert.False(t, ok)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "garbage"})
	_, ok = ParseSession(req)
	assert.False(t, ok)
}

func TestRequireAuth(t *testing.T) {
	t.Cleanup(func() { SetUserVerifier(nil) })
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := Middleware(RequireAuth(ok))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tenants", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, sessionRequest(t, 7))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	SetUserVerifier(func(_ context.Context, uid uint) bool { return uid != 7 })
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, sessionRequest(t, 7))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
