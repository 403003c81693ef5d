package logen

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/BearBump/TrackGate/internal/tracker"
	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

var carrierRef = tracker.CarrierRef{ID: "LOGEN", Name: "로젠택배"}

type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://www.ilogen.com"
	}
	return &Client{baseURL: baseURL, hc: tracker.NewHTTPClient()}
}

func (c *Client) Track(ctx context.Context, trackingNumber string) tracker.TrackInfo {
	num := tracker.CleanNumber(trackingNumber)
	if !tracker.IsDigits(num) || len(num) != 11 {
		return tracker.ErrorResult(carrierRef, trackingNumber, "invalid tracking number: expected 11 digits")
	}

	doc, err := tracker.GetDocument(ctx, c.hc, c.baseURL+"/web/personal/trace/"+url.PathEscape(num))
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
	rows := doc.Find("table.data.tkInfo tbody tr")
	if rows.Length() == 0 {
		return tracker.TrackInfo{}, errors.New("조회된 배송 내역이 없습니다")
	}

	events := make([]tracker.TrackEvent, 0, rows.Length())
	rows.Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		// дата и время одним полем: "2025.01.31 13:05"
		when := strings.TrimSpace(cells.Eq(0).Text())
		location := strings.TrimSpace(cells.Eq(1).Text())
		label := strings.TrimSpace(cells.Eq(2).Text())
		desc := label
		if cells.Length() > 3 {
			if d := strings.TrimSpace(cells.Eq(3).Text()); d != "" {
				desc = d
			}
		}
		events = append(events, tracker.NewEvent(
			parseStatus(label),
			tracker.StrPtr(label),
			tracker.ParseDateTime(when, ""),
			tracker.StrPtr(location),
			desc,
		))
	})
	if len(events) == 0 {
		return tracker.TrackInfo{}, errors.New("조회된 배송 내역이 없습니다")
	}

	// Логен отдаёт историю от свежего к старому — разворачиваем.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return tracker.SuccessResult(carrierRef, trackingNumber, events), nil
}

func parseStatus(label string) tracker.StatusCode {
	switch {
	case strings.Contains(label, "집하완료"), strings.Contains(label, "집하"):
		return tracker.StatusAtPickup
	case strings.Contains(label, "터미널입고"), strings.Contains(label, "터미널출고"), strings.Contains(label, "발송"):
		return tracker.StatusInTransit
	case strings.Contains(label, "배송출고"):
		return tracker.StatusOutForDelivery
	case strings.Contains(label, "미배송"):
		return tracker.StatusAttemptFail
	case strings.Contains(label, "배송완료"):
		return tracker.StatusDelivered
	default:
		return tracker.StatusUnknown
	}
}
