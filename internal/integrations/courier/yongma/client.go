package yongma

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/BearBump/TrackGate/internal/tracker"
)

var carrierRef = tracker.CarrierRef{ID: "YONGMA", Name: "용마로지스"}

// Данные трекинга у этого бэкенда зашиты JSON-литералом в инлайновый скрипт
// HTML-страницы; до парсинга JSON его приходится выдирать регуляркой.
var trackingDataRe = regexp.MustCompile(`(?s)var\s+trackingData\s*=\s*(\{.*?\})\s*;`)

type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://yongmalogis.co.kr"
	}
	return &Client{baseURL: baseURL, hc: tracker.NewHTTPClient()}
}

type trackingData struct {
	Found  bool `json:"found"`
	Events []struct {
		Dt       string `json:"dt"` // "2025-01-31 13:05"
		Office   string `json:"office"`
		StepName string `json:"stepName"`
	} `json:"events"`
}

func (c *Client) Track(ctx context.Context, trackingNumber string) tracker.TrackInfo {
	num := tracker.CleanNumber(trackingNumber)
	if !tracker.IsDigits(num) {
		return tracker.ErrorResult(carrierRef, trackingNumber, "invalid tracking number: digits expected")
	}

	b, err := tracker.GetBytes(ctx, c.hc, c.baseURL+"/tracking/result.html?number="+url.QueryEscape(num))
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "upstream request failed: "+err.Error())
	}

	m := trackingDataRe.FindSubmatch(b)
	if m == nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "배송 정보를 찾을 수 없습니다")
	}
	var data trackingData
	if err := json.Unmarshal(m[1], &data); err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "배송 정보를 찾을 수 없습니다")
	}
	if !data.Found || len(data.Events) == 0 {
		return tracker.ErrorResult(carrierRef, trackingNumber, "운송장 조회 결과가 없습니다")
	}

	events := make([]tracker.TrackEvent, 0, len(data.Events))
	for _, e := range data.Events {
		events = append(events, tracker.NewEvent(
			parseStatus(e.StepName),
			tracker.StrPtr(e.StepName),
			tracker.ParseDateTime(e.Dt, ""),
			tracker.StrPtr(e.Office),
			e.StepName,
		))
	}
	return tracker.SuccessResult(carrierRef, trackingNumber, events)
}

func parseStatus(step string) tracker.StatusCode {
	switch {
	case strings.Contains(step, "접수"):
		return tracker.StatusInformationReceived
	case strings.Contains(step, "출고"), strings.Contains(step, "이동"):
		return tracker.StatusInTransit
	case strings.Contains(step, "배송출발"):
		return tracker.StatusOutForDelivery
	case strings.Contains(step, "배송불가"):
		return tracker.StatusAttemptFail
	case strings.Contains(step, "배송완료"):
		return tracker.StatusDelivered
	default:
		return tracker.StatusUnknown
	}
}
