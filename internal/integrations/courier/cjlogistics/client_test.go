package cjlogistics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/BearBump/TrackGate/internal/tracker"
	"github.com/stretchr/testify/require"
)

func TestTrack_TwoStepFlow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		switch r.URL.Path {
		case "/ko/tool/parcel/tracking":
			require.Equal(t, "123456789013", r.PostForm.Get("paramInvcNo"))
			_, _ = w.Write([]byte(`{"parcelResultMap":{"resultList":[
				{"invcNo":"123456789013","sendrNm":"김*수","rcvrNm":"이*영","itemNm":"의류"}]}}`))
		case "/ko/tool/parcel/tracking-detail":
			require.Equal(t, "123456789013", r.PostForm.Get("paramInvcNo"))
			_, _ = w.Write([]byte(`{"parcelDetailResultMap":{"resultList":[
				{"dTime":"2025-01-30 09:10:00","regionNm":"서울A","scanNm":"집화처리","crgSt":"11"},
				{"dTime":"2025-01-31 08:00:00","regionNm":"군포HUB","scanNm":"간선상차","crgSt":"41"},
				{"dTime":"2025-01-31 14:22:00","regionNm":"서울B","scanNm":"배달완료","crgSt":"91"}]}}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	res := New(srv.URL).Track(context.Background(), "123456789013")
	require.True(t, res.Success)
	require.Len(t, res.Events, 3)
	require.Equal(t, tracker.StatusAtPickup, res.Events[0].Status.Code)
	require.Equal(t, tracker.StatusDelivered, res.LastEvent().Status.Code)
	require.Equal(t, "집화처리", *res.Events[0].Status.Name)
	require.Equal(t, "이*영", *res.Recipient.Name)
	require.Equal(t, "의류", *res.ProductName)
}

func TestTrack_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"parcelResultMap":{"resultList":[]}}`))
	}))
	defer srv.Close()

	res := New(srv.URL).Track(context.Background(), "123456789013")
	require.False(t, res.Success)
	require.Empty(t, res.Events)
	require.Contains(t, res.Error, "운송장")
}

func TestTrack_ChecksumRejectedWithoutNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL)
	res := c.Track(context.Background(), "123456789014") // битая контрольная цифра
	require.False(t, res.Success)
	require.Contains(t, res.Error, "checksum")

	res = c.Track(context.Background(), "abc")
	require.False(t, res.Success)

	require.Equal(t, int32(0), calls.Load())
}

func TestParseStatus_UnknownFallsThrough(t *testing.T) {
	require.Equal(t, tracker.StatusUnknown, parseStatus("777"))
	require.Equal(t, tracker.StatusOutForDelivery, parseStatus("82"))
}
