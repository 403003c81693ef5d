package hdexp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/BearBump/TrackGate/internal/tracker"
)

var carrierRef = tracker.CarrierRef{ID: "HDEXP", Name: "합동택배"}

type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://hdexp.co.kr"
	}
	return &Client{baseURL: baseURL, hc: tracker.NewHTTPClient()}
}

type trackResp struct {
	Result    string `json:"result"`
	ResultMsg string `json:"resultMsg"`
	Events    []struct {
		Stage    string `json:"stage"`
		Date     string `json:"date"` // "2025-01-31"
		Time     string `json:"time"` // "13:05"
		Location string `json:"location"`
	} `json:"events"`
}

func (c *Client) Track(ctx context.Context, trackingNumber string) tracker.TrackInfo {
	num := tracker.CleanNumber(trackingNumber)
	if !tracker.IsDigits(num) {
		return tracker.ErrorResult(carrierRef, trackingNumber, "invalid tracking number: digits expected")
	}

	b, err := tracker.GetBytes(ctx, c.hc, c.baseURL+"/hab/hd/index.php?step=tracking_bill&number="+url.QueryEscape(num))
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "upstream request failed: "+err.Error())
	}

	var resp trackResp
	if err := json.Unmarshal(b, &resp); err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "배송 정보를 찾을 수 없습니다")
	}
	if resp.Result != "suc" {
		msg := resp.ResultMsg
		if msg == "" {
			msg = "배송 정보를 찾을 수 없습니다"
		}
		return tracker.ErrorResult(carrierRef, trackingNumber, msg)
	}

	events := make([]tracker.TrackEvent, 0, len(resp.Events))
	for _, e := range resp.Events {
		events = append(events, tracker.NewEvent(
			parseStatus(e.Stage),
			tracker.StrPtr(e.Stage),
			tracker.ParseDateTime(e.Date, e.Time),
			tracker.StrPtr(e.Location),
			e.Stage,
		))
	}
	return tracker.SuccessResult(carrierRef, trackingNumber, events)
}

func parseStatus(stage string) tracker.StatusCode {
	switch {
	case strings.Contains(stage, "접수"):
		return tracker.StatusInformationReceived
	case strings.Contains(stage, "집하"):
		return tracker.StatusAtPickup
	case strings.Contains(stage, "이동"), strings.Contains(stage, "도착"):
		return tracker.StatusInTransit
	case strings.Contains(stage, "배송출발"):
		return tracker.StatusOutForDelivery
	case strings.Contains(stage, "배송완료"):
		return tracker.StatusDelivered
	default:
		return tracker.StatusUnknown
	}
}
