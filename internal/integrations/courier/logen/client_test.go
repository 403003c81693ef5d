package logen

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BearBump/TrackGate/internal/tracker"
	"github.com/stretchr/testify/require"
)

// Logen отдаёт строки от свежих к старым
const tracePage = `<html><body>
<table class="data tkInfo"><tbody>
<tr><td>2025.01.31 15:02</td><td>부산2지점</td><td>배송완료</td><td>고객님의 상품이 배송완료 되었습니다</td></tr>
<tr><td>2025.01.31 08:30</td><td>부산2지점</td><td>배송출고</td><td></td></tr>
<tr><td>2025.01.30 21:00</td><td>군포터미널</td><td>터미널출고</td><td></td></tr>
<tr><td>2025.01.30 10:15</td><td>서울1지점</td><td>집하완료</td><td></td></tr>
</tbody></table>
</body></html>`

func TestTrack_ReversesUpstreamOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/web/personal/trace/12345678901", r.URL.Path)
		_, _ = w.Write([]byte(tracePage))
	}))
	defer srv.Close()

	res := New(srv.URL).Track(context.Background(), "12345678901")
	require.True(t, res.Success)
	require.Len(t, res.Events, 4)
	// после разворота первым идёт старейшее событие
	require.Equal(t, tracker.StatusAtPickup, res.Events[0].Status.Code)
	require.Equal(t, tracker.StatusDelivered, res.LastEvent().Status.Code)
	require.True(t, res.Events[0].Time.Before(*res.LastEvent().Time))
	require.Equal(t, "고객님의 상품이 배송완료 되었습니다", res.LastEvent().Description)
}

func TestTrack_NoRowsIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div>다른 화면</div></body></html>`))
	}))
	defer srv.Close()

	res := New(srv.URL).Track(context.Background(), "12345678901")
	require.False(t, res.Success)
	require.Contains(t, res.Error, "조회된 배송 내역이 없습니다")
}

func TestTrack_Validation(t *testing.T) {
	res := New("http://127.0.0.1:1").Track(context.Background(), "12")
	require.False(t, res.Success)
	require.Contains(t, res.Error, "11 digits")
}
