package chunil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BearBump/TrackGate/internal/tracker"
	"github.com/stretchr/testify/require"
)

func TestTrack_ShortBodyIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// реальный бэкенд на неизвестный номер отдаёт крошечную страницу
		_, _ = w.Write([]byte("<html><body></body></html>"))
	}))
	defer srv.Close()

	res := New(srv.URL).Track(context.Background(), "20250131001")
	require.False(t, res.Success)
	require.Contains(t, res.Error, "조회 결과가 없습니다")
}

func TestTrack_OK(t *testing.T) {
	page := `<html><body>` + strings.Repeat("<!-- layout -->", 30) + `
<table class="tb_type1"><tbody>
<tr><td>2025.01.30</td><td>청주지점</td><td>발송</td></tr>
<tr><td>2025.01.31</td><td>천안지점</td><td>배달완료</td></tr>
</tbody></table></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	res := New(srv.URL).Track(context.Background(), "20250131001")
	require.True(t, res.Success)
	require.Equal(t, tracker.StatusDelivered, res.LastEvent().Status.Code)
}
