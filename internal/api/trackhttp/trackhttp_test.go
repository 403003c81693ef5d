package trackhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BearBump/TrackGate/internal/tracker"
)

type fakeService struct {
	trackResult tracker.TrackInfo
	supported   []tracker.CarrierInfo
	all         []tracker.CarrierInfo
	byID        map[string]tracker.CarrierInfo
	predicted   []tracker.CarrierInfo
}

func (f *fakeService) Track(ctx context.Context, carrierID, trackingNumber string) tracker.TrackInfo {
	return f.trackResult
}
func (f *fakeService) SupportedCarriers() []tracker.CarrierInfo { return f.supported }
func (f *fakeService) AllCarriers() []tracker.CarrierInfo       { return f.all }
func (f *fakeService) CarrierByID(id string) *tracker.CarrierInfo {
	if info, ok := f.byID[id]; ok {
		return &info
	}
	return nil
}
func (f *fakeService) PredictCarriers(string) []tracker.CarrierInfo { return f.predicted }

type fixedLimiter struct {
	allow bool
	keys  []string
}

func (l *fixedLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	l.keys = append(l.keys, key)
	return l.allow, 1, nil
}

func newTestServer(svc Service, lim Limiter) *httptest.Server {
	return httptest.NewServer(New(svc, lim, 60).Router())
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHandleTrack_SuccessAndFailureBoth200(t *testing.T) {
	ref := tracker.CarrierRef{ID: "CJ", Name: "CJ대한통운"}
	svc := &fakeService{trackResult: tracker.ErrorResult(ref, "123", "no such shipment")}
	srv := newTestServer(svc, nil)
	defer srv.Close()

	var info tracker.TrackInfo
	code := getJSON(t, srv.URL+"/v1/track/CJ/123", &info)
	require.Equal(t, http.StatusOK, code)
	require.False(t, info.Success)
	require.Equal(t, "no such shipment", info.Error)
}

func TestHandleCarriers(t *testing.T) {
	svc := &fakeService{
		supported: []tracker.CarrierInfo{{ID: "CJ"}, {ID: "HANJIN"}},
		all:       []tracker.CarrierInfo{{ID: "CJ"}, {ID: "HANJIN"}, {ID: "FEDEX"}},
	}
	srv := newTestServer(svc, nil)
	defer srv.Close()

	var supported []tracker.CarrierInfo
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/v1/carriers", &supported))
	require.Len(t, supported, 2)

	var all []tracker.CarrierInfo
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/v1/carriers/all", &all))
	require.Len(t, all, 3)
}

func TestHandleCarrierByID(t *testing.T) {
	svc := &fakeService{byID: map[string]tracker.CarrierInfo{
		"CJ": {ID: "CJ", DisplayName: "CJ대한통운"},
	}}
	srv := newTestServer(svc, nil)
	defer srv.Close()

	var info tracker.CarrierInfo
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/v1/carriers/CJ", &info))
	require.Equal(t, "CJ대한통운", info.DisplayName)

	require.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/v1/carriers/NOPE", nil))
}

func TestHandlePredict(t *testing.T) {
	svc := &fakeService{predicted: []tracker.CarrierInfo{{ID: "CJ"}, {ID: "HANJIN"}, {ID: "LOTTE"}}}
	srv := newTestServer(svc, nil)
	defer srv.Close()

	var infos []tracker.CarrierInfo
	code := getJSON(t, srv.URL+"/v1/carriers/predict?number=123456789012", &infos)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, infos, 3)

	require.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/v1/carriers/predict", nil))
}

func TestHandlePredict_NoMatchesEmptyArray(t *testing.T) {
	svc := &fakeService{}
	srv := newTestServer(svc, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/carriers/predict?number=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	require.JSONEq(t, `[]`, string(raw))
}

func TestRateLimit_Blocks(t *testing.T) {
	ref := tracker.CarrierRef{ID: "CJ", Name: "CJ대한통운"}
	svc := &fakeService{trackResult: tracker.SuccessResult(ref, "123", nil)}
	lim := &fixedLimiter{allow: false}
	srv := newTestServer(svc, lim)
	defer srv.Close()

	require.Equal(t, http.StatusTooManyRequests, getJSON(t, srv.URL+"/v1/track/CJ/123", nil))
	require.NotEmpty(t, lim.keys)
	require.Contains(t, lim.keys[0], "rl:track:")

	// списки перевозчиков лимитом не ограничены
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/v1/carriers", nil))
}

func TestRateLimit_AllowsWhenUnderLimit(t *testing.T) {
	ref := tracker.CarrierRef{ID: "CJ", Name: "CJ대한통운"}
	svc := &fakeService{trackResult: tracker.SuccessResult(ref, "123", nil)}
	lim := &fixedLimiter{allow: true}
	srv := newTestServer(svc, lim)
	defer srv.Close()

	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/v1/track/CJ/123", nil))
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(&fakeService{}, nil)
	defer srv.Close()

	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/healthz", nil))
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/readyz", nil))
}
