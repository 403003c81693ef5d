package nonghyup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BearBump/TrackGate/internal/tracker"
)

func TestTrack_History(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/trace/invoice/302123456789", r.URL.Path)
		w.Write([]byte(`{
			"result": {"code": "0000", "message": ""},
			"trackList": [
				{"scanDtm":"2025-01-30 09:10:00","centerNm":"김제집배센터","stepNm":"집화처리"},
				{"scanDtm":"2025-01-31 08:00:00","centerNm":"광주터미널","stepNm":"간선 도착"},
				{"scanDtm":"2025-01-31 13:05:00","centerNm":"광주북구지점","stepNm":"배달완료"}
			]
		}`))
	}))
	defer srv.Close()

	info := New(srv.URL).Track(context.Background(), "302123456789")

	require.True(t, info.Success)
	require.Len(t, info.Events, 3)
	require.Equal(t, tracker.StatusAtPickup, info.Events[0].Status.Code)
	require.Equal(t, tracker.StatusInTransit, info.Events[1].Status.Code)
	require.Equal(t, tracker.StatusDelivered, info.Events[2].Status.Code)
	require.Equal(t, "배달완료", *info.Events[2].Status.Name)
}

func TestTrack_UpstreamMessagePropagated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": {"code": "9001", "message": "운송장번호를 확인해 주세요"}, "trackList": []}`))
	}))
	defer srv.Close()

	info := New(srv.URL).Track(context.Background(), "302123456789")

	require.False(t, info.Success)
	require.Equal(t, "운송장번호를 확인해 주세요", info.Error)
}

func TestTrack_EmptyMessageFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": {"code": "9001", "message": ""}, "trackList": []}`))
	}))
	defer srv.Close()

	info := New(srv.URL).Track(context.Background(), "302123456789")

	require.False(t, info.Success)
	require.Contains(t, info.Error, "조회 결과가 없습니다")
}
