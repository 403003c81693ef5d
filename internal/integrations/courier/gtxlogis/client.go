package gtxlogis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/BearBump/TrackGate/internal/tracker"
)

var carrierRef = tracker.CarrierRef{ID: "GTX", Name: "GTX로지스"}

type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://www.gtxlogis.co.kr"
	}
	return &Client{baseURL: baseURL, hc: tracker.NewHTTPClient()}
}

type trackResp struct {
	ResultCode string `json:"resultCode"`
	TraceList  []struct {
		TraceDate string `json:"traceDate"` // "20250131"
		TraceTime string `json:"traceTime"` // "1305"
		BranchNm  string `json:"branchNm"`
		KindNm    string `json:"kindNm"`
	} `json:"traceList"`
}

func (c *Client) Track(ctx context.Context, trackingNumber string) tracker.TrackInfo {
	num := tracker.CleanNumber(trackingNumber)
	if !tracker.IsDigits(num) {
		return tracker.ErrorResult(carrierRef, trackingNumber, "invalid tracking number: digits expected")
	}

	b, err := tracker.GetBytes(ctx, c.hc, c.baseURL+"/tms/tracking?paramInvoice="+url.QueryEscape(num))
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "upstream request failed: "+err.Error())
	}
	var resp trackResp
	if err := json.Unmarshal(b, &resp); err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "배송 정보를 찾을 수 없습니다")
	}
	if resp.ResultCode != "00" || len(resp.TraceList) == 0 {
		return tracker.ErrorResult(carrierRef, trackingNumber, "운송장 조회 결과가 없습니다")
	}

	events := make([]tracker.TrackEvent, 0, len(resp.TraceList))
	for _, it := range resp.TraceList {
		events = append(events, tracker.NewEvent(
			parseStatus(it.KindNm),
			tracker.StrPtr(it.KindNm),
			tracker.ParseDateTime(it.TraceDate, it.TraceTime),
			tracker.StrPtr(it.BranchNm),
			it.KindNm,
		))
	}
	return tracker.SuccessResult(carrierRef, trackingNumber, events)
}

func parseStatus(kind string) tracker.StatusCode {
	switch {
	case strings.Contains(kind, "접수"):
		return tracker.StatusInformationReceived
	case strings.Contains(kind, "집하"):
		return tracker.StatusAtPickup
	case strings.Contains(kind, "간선"), strings.Contains(kind, "도착"):
		return tracker.StatusInTransit
	case strings.Contains(kind, "배달출발"):
		return tracker.StatusOutForDelivery
	case strings.Contains(kind, "배달완료"):
		return tracker.StatusDelivered
	default:
		return tracker.StatusUnknown
	}
}
