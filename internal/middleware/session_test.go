package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/launchdev/internal/apperror"
	"github.com/iliyamo/launchdev/internal/service"
)

type stubVerifier struct{ seen string }

func (s *stubVerifier) VerifySession(raw string) (service.Identity, error) {
	s.seen = raw
	switch raw {
	case "":
		return service.Identity{}, apperror.NewAuthError("No token provided", nil)
	case "good":
		return service.Identity{UserID: 7, Email: "a@x.com"}, nil
	default:
		return service.Identity{}, apperror.NewAuthError("Invalid or expired token", nil)
	}
}

func runSession(t *testing.T, req *http.Request) (service.Identity, bool, *stubVerifier, error) {
	t.Helper()
	e := echo.New()
	c := e.NewContext(req, httptest.NewRecorder())
	v := &stubVerifier{}

	var got service.Identity
	var ok bool
	err := Session(v)(func(c echo.Context) error {
		got, ok = CurrentIdentity(c)
		return nil
	})(c)
	return got, ok, v, err
}

func TestSession_Cookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/getUser", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})

	ident, ok, _, err := runSession(t, req)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, service.Identity{UserID: 7, Email: "a@x.com"}, ident)
}

func TestSession_BearerFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/getUser", nil)
	req.Header.Set("Authorization", "bearer good")

	_, ok, v, err := runSession(t, req)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "good", v.seen)
}

func TestSession_CookieWinsOverHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/getUser", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "bad"})
	req.Header.Set("Authorization", "Bearer good")

	_, ok, v, err := runSession(t, req)
	assert.False(t, ok)
	assert.Equal(t, "bad", v.seen)
	assert.True(t, apperror.Is(err, apperror.AuthError))
}

func TestSession_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/getUser", nil)

	_, ok, _, err := runSession(t, req)
	assert.False(t, ok)
	require.Error(t, err)
	assert.Equal(t, "No token provided", apperror.From(err).Message)
	assert.Equal(t, http.StatusUnauthorized, apperror.From(err).StatusCode())
}

func TestCurrentIdentity_Unset(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, ok := CurrentIdentity(c)
	assert.False(t, ok)
}
