package honamlogis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/BearBump/TrackGate/internal/tracker"
)

var carrierRef = tracker.CarrierRef{ID: "HONAM", Name: "호남택배"}

type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://www.honamlogis.co.kr"
	}
	return &Client{baseURL: baseURL, hc: tracker.NewHTTPClient()}
}

type trackResp struct {
	// "Y" есть данные, "N" — сентинель "не найдено"
	Result string `json:"result"`
	List   []struct {
		ScanDate string `json:"scan_date"` // "2025-01-31"
		ScanTime string `json:"scan_time"` // "13:05:00"
		Branch   string `json:"branch"`
		StepName string `json:"step_name"`
	} `json:"list"`
}

func (c *Client) Track(ctx context.Context, trackingNumber string) tracker.TrackInfo {
	num := tracker.CleanNumber(trackingNumber)
	if !tracker.IsDigits(num) {
		return tracker.ErrorResult(carrierRef, trackingNumber, "invalid tracking number: digits expected")
	}

	b, err := tracker.GetBytes(ctx, c.hc, c.baseURL+"/api/tracking?invoice="+url.QueryEscape(num))
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "upstream request failed: "+err.Error())
	}
	var resp trackResp
	if err := json.Unmarshal(b, &resp); err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "배송 정보를 찾을 수 없습니다")
	}
	if resp.Result == "N" || len(resp.List) == 0 {
		return tracker.ErrorResult(carrierRef, trackingNumber, "등록된 운송장이 없습니다")
	}

	events := make([]tracker.TrackEvent, 0, len(resp.List))
	for _, it := range resp.List {
		events = append(events, tracker.NewEvent(
			parseStatus(it.StepName),
			tracker.StrPtr(it.StepName),
			tracker.ParseDateTime(it.ScanDate, it.ScanTime),
			tracker.StrPtr(it.Branch),
			it.StepName,
		))
	}
	return tracker.SuccessResult(carrierRef, trackingNumber, events)
}

func parseStatus(step string) tracker.StatusCode {
	switch {
	case strings.Contains(step, "접수"):
		return tracker.StatusInformationReceived
	case strings.Contains(step, "집하"):
		return tracker.StatusAtPickup
	case strings.Contains(step, "상차"), strings.Contains(step, "하차"):
		return tracker.StatusInTransit
	case strings.Contains(step, "배송출발"):
		return tracker.StatusOutForDelivery
	case strings.Contains(step, "배송완료"):
		return tracker.StatusDelivered
	default:
		return tracker.StatusUnknown
	}
}
