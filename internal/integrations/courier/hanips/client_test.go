package hanips

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BearBump/TrackGate/internal/tracker"
)

const historyPage = `<html><body>
<table class="trace_tb">
<tbody>
<tr><td>2025-01-30 09:10</td><td>원주영업소</td><td>접수</td></tr>
<tr><td>2025-01-31 08:00</td><td>원주허브</td><td>간선상차</td></tr>
<tr><td>2025-01-31 13:05</td><td>횡성지점</td><td>배송완료</td></tr>
</tbody>
</table>
</body></html>`

func TestTrack_CombinedDateTimeColumn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "12345678901", r.URL.Query().Get("logicnum"))
		w.Write([]byte(historyPage))
	}))
	defer srv.Close()

	info := New(srv.URL).Track(context.Background(), "12345678901")

	require.True(t, info.Success)
	require.Len(t, info.Events, 3)
	require.Equal(t, tracker.StatusInformationReceived, info.Events[0].Status.Code)
	require.Equal(t, tracker.StatusInTransit, info.Events[1].Status.Code)
	require.Equal(t, tracker.StatusDelivered, info.Events[2].Status.Code)
	require.Equal(t, time.Date(2025, 1, 31, 13, 5, 0, 0, tracker.KST), *info.Events[2].Time)
}

func TestTrack_NoRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><table class="trace_tb"><tbody></tbody></table></body></html>`))
	}))
	defer srv.Close()

	info := New(srv.URL).Track(context.Background(), "12345678901")

	require.False(t, info.Success)
	require.Contains(t, info.Error, "조회 결과가 없습니다")
}
