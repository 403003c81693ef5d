package kunyoung

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/BearBump/TrackGate/internal/tracker"
)

var carrierRef = tracker.CarrierRef{ID: "KUNYOUNG", Name: "건영택배"}

type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://www.kunyoung.com"
	}
	return &Client{baseURL: baseURL, hc: tracker.NewHTTPClient()}
}

type trackResp struct {
	Code  string `json:"code"`
	Items []struct {
		Day   string `json:"day"`  // YYYYMMDD
		Time  string `json:"time"` // HHMM
		Local string `json:"local"`
		Stage string `json:"stage"`
	} `json:"items"`
}

func (c *Client) Track(ctx context.Context, trackingNumber string) tracker.TrackInfo {
	num := tracker.CleanNumber(trackingNumber)
	if !tracker.IsDigits(num) {
		return tracker.ErrorResult(carrierRef, trackingNumber, "invalid tracking number: digits expected")
	}

	b, err := tracker.GetBytes(ctx, c.hc, c.baseURL+"/kyle/delivery?number="+url.QueryEscape(num))
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "upstream request failed: "+err.Error())
	}
	var resp trackResp
	if err := json.Unmarshal(b, &resp); err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "배송 정보를 찾을 수 없습니다")
	}
	if resp.Code != "ok" || len(resp.Items) == 0 {
		return tracker.ErrorResult(carrierRef, trackingNumber, "운송장 조회 결과가 없습니다")
	}

	events := make([]tracker.TrackEvent, 0, len(resp.Items))
	for _, it := range resp.Items {
		events = append(events, tracker.NewEvent(
			parseStatus(it.Stage),
			tracker.StrPtr(it.Stage),
			tracker.ParseDateTime(it.Day, it.Time),
			tracker.StrPtr(it.Local),
			it.Stage,
		))
	}
	return tracker.SuccessResult(carrierRef, trackingNumber, events)
}

func parseStatus(stage string) tracker.StatusCode {
	switch {
	case strings.Contains(stage, "접수"):
		return tracker.StatusInformationReceived
	case strings.Contains(stage, "발송"), strings.Contains(stage, "도착"):
		return tracker.StatusInTransit
	case strings.Contains(stage, "배달출발"):
		return tracker.StatusOutForDelivery
	case strings.Contains(stage, "배달완료"):
		return tracker.StatusDelivered
	default:
		return tracker.StatusUnknown
	}
}
