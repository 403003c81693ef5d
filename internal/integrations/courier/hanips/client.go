package hanips

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/BearBump/TrackGate/internal/tracker"
	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

var carrierRef = tracker.CarrierRef{ID: "HANIPS", Name: "한의사랑택배"}

type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://www.hanips.com"
	}
	return &Client{baseURL: baseURL, hc: tracker.NewHTTPClient()}
}

func (c *Client) Track(ctx context.Context, trackingNumber string) tracker.TrackInfo {
	num := tracker.CleanNumber(trackingNumber)
	if !tracker.IsDigits(num) {
		return tracker.ErrorResult(carrierRef, trackingNumber, "invalid tracking number: digits expected")
	}

	doc, err := tracker.GetDocument(ctx, c.hc, c.baseURL+"/html/sub/trace.php?logicnum="+url.QueryEscape(num))
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "upstream request failed: "+err.Error())
	}

	info, err := parsePage(doc, trackingNumber)
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, err.Error())
	}
	return info
}

func parsePage(doc *goquery.Document, trackingNumber string) (tracker.TrackInfo, error) {
	var events []tracker.TrackEvent
	doc.Find("table.trace_tb tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		when := strings.TrimSpace(cells.Eq(0).Text()) // "2025-01-31 13:05"
		location := strings.TrimSpace(cells.Eq(1).Text())
		label := strings.TrimSpace(cells.Eq(2).Text())
		events = append(events, tracker.NewEvent(
			parseStatus(label),
			tracker.StrPtr(label),
			tracker.ParseDateTime(when, ""),
			tracker.StrPtr(location),
			label,
		))
	})
	if len(events) == 0 {
		return tracker.TrackInfo{}, errors.New("배송 조회 결과가 없습니다")
	}
	return tracker.SuccessResult(carrierRef, trackingNumber, events), nil
}

func parseStatus(label string) tracker.StatusCode {
	switch {
	case strings.Contains(label, "접수"):
		return tracker.StatusInformationReceived
	case strings.Contains(label, "발송"), strings.Contains(label, "간선"):
		return tracker.StatusInTransit
	case strings.Contains(label, "배송출발"):
		return tracker.StatusOutForDelivery
	case strings.Contains(label, "배송완료"):
		return tracker.StatusDelivered
	default:
		return tracker.StatusUnknown
	}
}
