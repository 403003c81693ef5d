package gspostbox

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BearBump/TrackGate/internal/tracker"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, detailBody string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/gspostbox/v1/tracking":
			_, _ = w.Write([]byte(`{"code":"200","serialNo":"SR-9","senderName":"강*민","receiverName":"윤*아","goodsName":"화장품"}`))
		case "/gspostbox/v1/tracking/SR-9/detail":
			_, _ = w.Write([]byte(detailBody))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
}

func TestTrack_InfersDeliveredFromRecipientRegistration(t *testing.T) {
	srv := newServer(t, `{"trackingDetails":[
		{"transTime":"2025-01-30T10:00:00+09:00","location":"GS서울점","code":"C015","name":"점포 집하"},
		{"transTime":"2025-01-31T19:00:00+09:00","location":"GS부산점","code":"C078","name":"수령인 등록"}]}`)
	defer srv.Close()

	res := New(srv.URL).Track(context.Background(), "3501234567")
	require.True(t, res.Success)
	// два события от бэкенда + одно синтетическое DELIVERED
	require.Len(t, res.Events, 3)
	last := res.LastEvent()
	require.Equal(t, tracker.StatusDelivered, last.Status.Code)
	require.Equal(t, "GS부산점", *last.Location)
	require.Equal(t, res.Events[1].Time, last.Time)
}

func TestTrack_NoDoubleInferenceWhenTerminalPresent(t *testing.T) {
	// явный код вручения уже есть — синтетику дописывать нельзя
	srv := newServer(t, `{"trackingDetails":[
		{"transTime":"2025-01-31T19:00:00+09:00","location":"GS부산점","code":"C078","name":"수령인 등록"},
		{"transTime":"2025-02-01T09:00:00+09:00","location":"GS부산점","code":"C099","name":"배송완료"}]}`)
	defer srv.Close()

	res := New(srv.URL).Track(context.Background(), "3501234567")
	require.True(t, res.Success)
	require.Len(t, res.Events, 2)
	require.Equal(t, tracker.StatusDelivered, res.LastEvent().Status.Code)
}

func TestTrack_LookupFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"404","message":"등록된 택배 정보가 없습니다"}`))
	}))
	defer srv.Close()

	res := New(srv.URL).Track(context.Background(), "3501234567")
	require.False(t, res.Success)
	require.Equal(t, "등록된 택배 정보가 없습니다", res.Error)
}
