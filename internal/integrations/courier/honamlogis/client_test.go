package honamlogis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrack_ResultNSentinelMeansNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// бэкенд отвечает 200 и валидным JSON даже когда номера нет
		_, _ = w.Write([]byte(`{"result":"N","list":[]}`))
	}))
	defer srv.Close()

	res := New(srv.URL).Track(context.Background(), "4100000001")
	require.False(t, res.Success)
	require.Contains(t, res.Error, "등록된 운송장이 없습니다")
	require.Empty(t, res.Events)
}

func TestTrack_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "4100000001", r.URL.Query().Get("invoice"))
		_, _ = w.Write([]byte(`{"result":"Y","list":[
			{"scan_date":"2025-01-30","scan_time":"09:00:00","branch":"광주지점","step_name":"집하"},
			{"scan_date":"2025-01-31","scan_time":"14:00:00","branch":"목포지점","step_name":"배송완료"}]}`))
	}))
	defer srv.Close()

	res := New(srv.URL).Track(context.Background(), "4100000001")
	require.True(t, res.Success)
	require.Len(t, res.Events, 2)
}
