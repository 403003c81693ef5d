package slx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/BearBump/TrackGate/internal/tracker"
)

var carrierRef = tracker.CarrierRef{ID: "SLX", Name: "SLX택배"}

// У SLX встречаются смешанные буквенно-цифровые номера, правила контрольной
// цифры нет — валидируем только алфавит.
type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://www.slx.co.kr"
	}
	return &Client{baseURL: baseURL, hc: tracker.NewHTTPClient()}
}

type trackResp struct {
	Success bool `json:"success"`
	Data    []struct {
		ProcDate string `json:"procDate"` // "2025-01-31 13:05"
		Branch   string `json:"branch"`
		Status   string `json:"status"`
		Remark   string `json:"remark"`
	} `json:"data"`
}

func (c *Client) Track(ctx context.Context, trackingNumber string) tracker.TrackInfo {
	num := tracker.CleanNumber(trackingNumber)
	if !tracker.IsAlphanumeric(num) {
		return tracker.ErrorResult(carrierRef, trackingNumber, "invalid tracking number: alphanumeric expected")
	}

	b, err := tracker.GetBytes(ctx, c.hc, c.baseURL+"/info/tracking?number="+url.QueryEscape(num))
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "upstream request failed: "+err.Error())
	}
	var resp trackResp
	if err := json.Unmarshal(b, &resp); err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "배송 정보를 찾을 수 없습니다")
	}
	if !resp.Success || len(resp.Data) == 0 {
		return tracker.ErrorResult(carrierRef, trackingNumber, "운송장 조회 결과가 없습니다")
	}

	events := make([]tracker.TrackEvent, 0, len(resp.Data))
	for _, d := range resp.Data {
		events = append(events, tracker.NewEvent(
			parseStatus(d.Status),
			tracker.StrPtr(d.Status),
			tracker.ParseDateTime(d.ProcDate, ""),
			tracker.StrPtr(d.Branch),
			d.Remark,
		))
	}
	return tracker.SuccessResult(carrierRef, trackingNumber, events)
}

func parseStatus(status string) tracker.StatusCode {
	switch {
	case strings.Contains(status, "접수"):
		return tracker.StatusInformationReceived
	case strings.Contains(status, "입고"), strings.Contains(status, "출고"), strings.Contains(status, "이동"):
		return tracker.StatusInTransit
	case strings.Contains(status, "배송출발"):
		return tracker.StatusOutForDelivery
	case strings.Contains(status, "배송완료"):
		return tracker.StatusDelivered
	default:
		return tracker.StatusUnknown
	}
}
