package daewoon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/BearBump/TrackGate/internal/tracker"
)

var carrierRef = tracker.CarrierRef{ID: "DAEWOON", Name: "대운글로벌"}

type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://www.dwgl.co.kr"
	}
	return &Client{baseURL: baseURL, hc: tracker.NewHTTPClient()}
}

type trackResp struct {
	Status string `json:"status"`
	Rows   []struct {
		TransDate string `json:"transDate"` // "2025.01.31"
		TransTime string `json:"transTime"` // "13:05"
		Office    string `json:"office"`
		StateName string `json:"stateName"`
	} `json:"rows"`
}

func (c *Client) Track(ctx context.Context, trackingNumber string) tracker.TrackInfo {
	num := tracker.CleanNumber(trackingNumber)
	if !tracker.IsDigits(num) {
		return tracker.ErrorResult(carrierRef, trackingNumber, "invalid tracking number: digits expected")
	}

	b, err := tracker.GetBytes(ctx, c.hc, c.baseURL+"/main/invoice?number="+url.QueryEscape(num))
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "upstream request failed: "+err.Error())
	}
	var resp trackResp
	if err := json.Unmarshal(b, &resp); err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "배송 정보를 찾을 수 없습니다")
	}
	if resp.Status != "ok" || len(resp.Rows) == 0 {
		return tracker.ErrorResult(carrierRef, trackingNumber, "운송장 조회 결과가 없습니다")
	}

	events := make([]tracker.TrackEvent, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		events = append(events, tracker.NewEvent(
			parseStatus(r.StateName),
			tracker.StrPtr(r.StateName),
			tracker.ParseDateTime(r.TransDate, r.TransTime),
			tracker.StrPtr(r.Office),
			r.StateName,
		))
	}
	return tracker.SuccessResult(carrierRef, trackingNumber, events)
}

func parseStatus(state string) tracker.StatusCode {
	switch {
	case strings.Contains(state, "접수"):
		return tracker.StatusInformationReceived
	case strings.Contains(state, "상차"), strings.Contains(state, "하차"), strings.Contains(state, "이동"):
		return tracker.StatusInTransit
	case strings.Contains(state, "배송출발"):
		return tracker.StatusOutForDelivery
	case strings.Contains(state, "배송완료"):
		return tracker.StatusDelivered
	default:
		return tracker.StatusUnknown
	}
}
