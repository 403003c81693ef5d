package daesin

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/BearBump/TrackGate/internal/tracker"
	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

var carrierRef = tracker.CarrierRef{ID: "DAESIN", Name: "대신택배"}

// Сайт отдаёт страницы в EUC-KR, как и у почты.
type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://www.ds3211.co.kr"
	}
	return &Client{baseURL: baseURL, hc: tracker.NewHTTPClient()}
}

func (c *Client) Track(ctx context.Context, trackingNumber string) tracker.TrackInfo {
	num := tracker.CleanNumber(trackingNumber)
	if !tracker.IsDigits(num) {
		return tracker.ErrorResult(carrierRef, trackingNumber, "invalid tracking number: digits expected")
	}

	doc, err := tracker.GetDocumentEUCKR(ctx, c.hc, c.baseURL+"/home/sub01_02_1.php?logicnum="+url.QueryEscape(num))
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
	table := doc.Find("table.pro_tb")
	if table.Length() == 0 {
		// отсутствие таблицы = номер не найден либо разметку поменяли
		return tracker.TrackInfo{}, errors.New("배송 조회 결과가 없습니다")
	}

	var events []tracker.TrackEvent
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		date := strings.TrimSpace(cells.Eq(0).Text()) // "2025-01-31 13:05"
		branch := strings.TrimSpace(cells.Eq(1).Text())
		label := strings.TrimSpace(cells.Eq(2).Text())
		events = append(events, tracker.NewEvent(
			parseStatus(label),
			tracker.StrPtr(label),
			tracker.ParseDateTime(date, ""),
			tracker.StrPtr(branch),
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
	case strings.Contains(label, "발송"), strings.Contains(label, "도착"):
		return tracker.StatusInTransit
	case strings.Contains(label, "배송출발"):
		return tracker.StatusOutForDelivery
	case strings.Contains(label, "배송완료"):
		return tracker.StatusDelivered
	default:
		return tracker.StatusUnknown
	}
}
