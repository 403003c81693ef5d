package nonghyup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/BearBump/TrackGate/internal/tracker"
)

var carrierRef = tracker.CarrierRef{ID: "NONGHYUP", Name: "농협택배"}

type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://delivery.nonghyup.com"
	}
	return &Client{baseURL: baseURL, hc: tracker.NewHTTPClient()}
}

type trackResp struct {
	Result struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"result"`
	TrackList []struct {
		ScanDtm  string `json:"scanDtm"` // "2025-01-31 13:05:00"
		CenterNm string `json:"centerNm"`
		StepNm   string `json:"stepNm"`
	} `json:"trackList"`
}

func (c *Client) Track(ctx context.Context, trackingNumber string) tracker.TrackInfo {
	num := tracker.CleanNumber(trackingNumber)
	if !tracker.IsDigits(num) {
		return tracker.ErrorResult(carrierRef, trackingNumber, "invalid tracking number: digits expected")
	}

	b, err := tracker.GetBytes(ctx, c.hc, c.baseURL+"/rest/trace/invoice/"+url.PathEscape(num))
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "upstream request failed: "+err.Error())
	}
	var resp trackResp
	if err := json.Unmarshal(b, &resp); err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "배송 정보를 찾을 수 없습니다")
	}
	if resp.Result.Code != "0000" || len(resp.TrackList) == 0 {
		msg := resp.Result.Message
		if msg == "" {
			msg = "운송장 조회 결과가 없습니다"
		}
		return tracker.ErrorResult(carrierRef, trackingNumber, msg)
	}

	events := make([]tracker.TrackEvent, 0, len(resp.TrackList))
	for _, it := range resp.TrackList {
		events = append(events, tracker.NewEvent(
			parseStatus(it.StepNm),
			tracker.StrPtr(it.StepNm),
			tracker.ParseDateTime(it.ScanDtm, ""),
			tracker.StrPtr(it.CenterNm),
			it.StepNm,
		))
	}
	return tracker.SuccessResult(carrierRef, trackingNumber, events)
}

func parseStatus(step string) tracker.StatusCode {
	switch {
	case strings.Contains(step, "접수"):
		return tracker.StatusInformationReceived
	case strings.Contains(step, "집화"):
		return tracker.StatusAtPickup
	case strings.Contains(step, "발송"), strings.Contains(step, "도착"):
		return tracker.StatusInTransit
	case strings.Contains(step, "배달출발"):
		return tracker.StatusOutForDelivery
	case strings.Contains(step, "배달완료"):
		return tracker.StatusDelivered
	default:
		return tracker.StatusUnknown
	}
}
