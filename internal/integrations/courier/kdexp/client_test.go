package kdexp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/BearBump/TrackGate/internal/tracker"
	"github.com/stretchr/testify/require"
)

const okBody = `{"result":"suc",
	"order":{"send_name":"정*호","recv_name":"한*솔","prod_name":"생활용품"},
	"items":[
		{"stage":"영업소집하","location":"이천영업소","reg_date":"2025-01-30 11:00:00"},
		{"stage":"배송완료","location":"강릉영업소","reg_date":"2025-01-31 16:40:00"}]}`

func TestTrack_NewEndpoint(t *testing.T) {
	var legacyCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/common/base/order2":
			require.Equal(t, "123456789", r.URL.Query().Get("barcode"))
			_, _ = w.Write([]byte(okBody))
		case "/order/order_search.asp":
			legacyCalls.Add(1)
		}
	}))
	defer srv.Close()

	res := New(srv.URL).Track(context.Background(), "123456789")
	require.True(t, res.Success)
	require.Len(t, res.Events, 2)
	require.Equal(t, tracker.StatusDelivered, res.LastEvent().Status.Code)
	require.Equal(t, int32(0), legacyCalls.Load())
}

func TestTrack_FallsBackToLegacyEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/common/base/order2":
			w.WriteHeader(http.StatusInternalServerError)
		case "/order/order_search.asp":
			_, _ = w.Write([]byte(okBody))
		}
	}))
	defer srv.Close()

	res := New(srv.URL).Track(context.Background(), "123456789")
	require.True(t, res.Success)
	require.Equal(t, "생활용품", *res.ProductName)
}

func TestTrack_BothEndpointsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	res := New(srv.URL).Track(context.Background(), "123456789")
	require.False(t, res.Success)
	require.NotEmpty(t, res.Error)
	require.Empty(t, res.Events)
}

func TestTrack_SentinelResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"fail"}`))
	}))
	defer srv.Close()

	res := New(srv.URL).Track(context.Background(), "123456789")
	require.False(t, res.Success)
	require.Contains(t, res.Error, "존재하지 않습니다")
}
