package cupost

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BearBump/TrackGate/internal/tracker"
	"github.com/stretchr/testify/require"
)

func TestTrack_CSRFSessionFlow(t *testing.T) {
	const token = "f3a1-token"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/postbox/delivery/local.cupost":
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc123"})
			_, _ = w.Write([]byte(`<html><body><form>
				<input type="hidden" name="_csrf" value="` + token + `"/>
			</form></body></html>`))
		case "/postbox/delivery/localResult.cupost":
			// POST обязан прийти с токеном со страницы формы и с кукой сессии
			require.NoError(t, r.ParseForm())
			require.Equal(t, token, r.PostForm.Get("_csrf"))
			cookie, err := r.Cookie("JSESSIONID")
			require.NoError(t, err)
			require.Equal(t, "abc123", cookie.Value)
			_, _ = w.Write([]byte(`<html><body><table class="tableType1"><tbody>
<tr><td>2025-01-30 09:00</td><td>CU서울점</td><td>점포접수</td></tr>
<tr><td>2025-01-31 18:00</td><td>CU부산점</td><td>점포도착</td></tr>
<tr><td>2025-02-01 10:30</td><td>CU부산점</td><td>수령완료</td></tr>
</tbody></table></body></html>`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	res := New(srv.URL).Track(context.Background(), "1588123456")
	require.True(t, res.Success)
	require.Len(t, res.Events, 3)
	require.Equal(t, tracker.StatusInformationReceived, res.Events[0].Status.Code)
	require.Equal(t, tracker.StatusAvailableForPickup, res.Events[1].Status.Code)
	require.Equal(t, tracker.StatusDelivered, res.LastEvent().Status.Code)
}

func TestTrack_MissingCSRFToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>no form here</body></html>`))
	}))
	defer srv.Close()

	res := New(srv.URL).Track(context.Background(), "1588123456")
	require.False(t, res.Success)
	require.Contains(t, res.Error, "csrf token")
}

func TestTrack_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/postbox/delivery/local.cupost" {
			_, _ = w.Write([]byte(`<input name="_csrf" value="x"/>`))
			return
		}
		_, _ = w.Write([]byte(`<html><body>조회된 내역이 없습니다.</body></html>`))
	}))
	defer srv.Close()

	res := New(srv.URL).Track(context.Background(), "1588123456")
	require.False(t, res.Success)
	require.Contains(t, res.Error, "조회된 내역이 없습니다")
}
