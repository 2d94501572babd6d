package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPKeyExtractor(t *testing.T) {
	t.Run("RemoteAddr", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "192.168.1.10:52431"
		assert.Equal(t, "192.168.1.10", IPKeyExtractor(r))
	})

	t.Run("XForwardedFor", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		assert.Equal(t, "203.0.113.7", IPKeyExtractor(r))
	})

	t.Run("XRealIP", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		r.Header.Set("X-Real-IP", "203.0.113.9")
		assert.Equal(t, "203.0.113.9", IPKeyExtractor(r))
	})
}

func TestFormFieldKeyExtractor(t *testing.T) {
	form := url.Values{"username": {"rosa"}}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	extractor := FormFieldKeyExtractor("username")
	assert.Equal(t, "rosa", extractor(r))
}

func TestCompositeKeyExtractor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.168.1.10:52431"
	r = r.WithContext(WithUserID(r.Context(), "user-1"))

	extractor := CompositeKeyExtractor(":", UserIDKeyExtractor, IPKeyExtractor)
	assert.Equal(t, "user-1:192.168.1.10", extractor(r))
}

func TestRateLimitMiddleware(t *testing.T) {
	config := RateLimitConfig{
		RequestsPerWindow: 2,
		Window:            time.Minute,
		Burst:             2,
	}

	handler := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
		RateLimitByIP(config),
	)

	send := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "192.168.1.10:52431"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusOK, send().Code)
	assert.Equal(t, http.StatusOK, send().Code)

	w := send()
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))

	// A different client is unaffected.
	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "192.168.1.11:52431"
	ow := httptest.NewRecorder()
	handler.ServeHTTP(ow, other)
	assert.Equal(t, http.StatusOK, ow.Code)
}

func TestParseRateLimitFromEnv(t *testing.T) {
	t.Setenv("RATELIMIT_TEST_REQUESTS", "42")
	t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "30")
	t.Setenv("RATELIMIT_TEST_BURST", "7")

	config := ParseRateLimitFromEnv("TEST", StrictLimit)
	assert.Equal(t, 42, config.RequestsPerWindow)
	assert.Equal(t, 30*time.Second, config.Window)
	assert.Equal(t, 7, config.Burst)
}
