package sina

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"FundMonitor/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/list=sz399006", r.URL.Path)
		assert.Equal(t, referer, r.Header.Get("Referer"))
		assert.Equal(t, "fm-test", r.Header.Get("User-Agent"))
		_, _ = w.Write(gbk(t, quoteLine("sz399006", "2000.00", "1980.00")))
	}))
	defer srv.Close()

	c := New(srv.URL+"/list=", "fm-test", time.Second)
	s, err := c.FetchIndex(context.Background(), models.IndexTarget{Name: "创业板指", Code: "sz399006"})
	require.NoError(t, err)
	assert.Equal(t, -1.0, s.ChangePercent)
	assert.Equal(t, "创业板指", s.Name)
}

func TestFetchIndexTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL+"/list=", "", time.Second)
	_, err := c.FetchIndex(context.Background(), models.IndexTarget{Name: "上证指数", Code: "sh000001"})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrTransport)
}

func TestFetchIndexTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(srv.URL+"/list=", "", 20*time.Millisecond)
	_, err := c.FetchIndex(context.Background(), models.IndexTarget{Name: "上证指数", Code: "sh000001"})
	assert.ErrorIs(t, err, models.ErrTransport)
}
