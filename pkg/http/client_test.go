package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSendsDefaultAndRequestHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fm-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "https://finance.sina.com.cn", r.Header.Get("Referer"))
		assert.Equal(t, "1", r.URL.Query().Get("rt"))
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient(WithTimeout(time.Second), WithHeader("User-Agent", "fm-test"), WithHTTPClient(srv.Client()))
	body, err := c.Fetch(context.Background(), &RequestOptions{
		URL:         srv.URL,
		Headers:     map[string]string{"Referer": "https://finance.sina.com.cn"},
		QueryParams: map[string][]string{"rt": {"1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestFetchNon2xxIsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient().Fetch(context.Background(), &RequestOptions{URL: srv.URL})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Code)
}

func TestFetchTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewClient(WithTimeout(20*time.Millisecond)).Fetch(context.Background(), &RequestOptions{URL: srv.URL})
	assert.Error(t, err)
}
