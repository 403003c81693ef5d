package chunil

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/BearBump/TrackGate/internal/tracker"
	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

var carrierRef = tracker.CarrierRef{ID: "CHUNIL", Name: "천일택배"}

// Бэкенд на несуществующий номер отвечает 200 и почти пустой страницей,
// отличить можно только по размеру тела.
const notFoundBodyThreshold = 300

type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://www.chunil.co.kr"
	}
	return &Client{baseURL: baseURL, hc: tracker.NewHTTPClient()}
}

func (c *Client) Track(ctx context.Context, trackingNumber string) tracker.TrackInfo {
	num := tracker.CleanNumber(trackingNumber)
	if !tracker.IsDigits(num) {
		return tracker.ErrorResult(carrierRef, trackingNumber, "invalid tracking number: digits expected")
	}

	b, err := tracker.GetBytes(ctx, c.hc, c.baseURL+"/HTrace/HTrace.jsp?transNo="+url.QueryEscape(num))
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "upstream request failed: "+err.Error())
	}
	if len(b) < notFoundBodyThreshold {
		return tracker.ErrorResult(carrierRef, trackingNumber, "운송장 조회 결과가 없습니다")
	}

	doc, err := tracker.ParseDocument(b)
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "배송 정보를 찾을 수 없습니다")
	}
	info, err := parsePage(doc, trackingNumber)
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, err.Error())
	}
	return info
}

func parsePage(doc *goquery.Document, trackingNumber string) (tracker.TrackInfo, error) {
	var events []tracker.TrackEvent
	doc.Find("table.tb_type1 tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		date := strings.TrimSpace(cells.Eq(0).Text()) // "2025.01.31"
		location := strings.TrimSpace(cells.Eq(1).Text())
		label := strings.TrimSpace(cells.Eq(2).Text())
		events = append(events, tracker.NewEvent(
			parseStatus(label),
			tracker.StrPtr(label),
			tracker.ParseDateTime(date, ""),
			tracker.StrPtr(location),
			label,
		))
	})
	if len(events) == 0 {
		return tracker.TrackInfo{}, errors.New("운송장 조회 결과가 없습니다")
	}
	return tracker.SuccessResult(carrierRef, trackingNumber, events), nil
}

func parseStatus(label string) tracker.StatusCode {
	switch {
	case strings.Contains(label, "접수"):
		return tracker.StatusInformationReceived
	case strings.Contains(label, "발송"), strings.Contains(label, "도착"):
		return tracker.StatusInTransit
	case strings.Contains(label, "배달출발"):
		return tracker.StatusOutForDelivery
	case strings.Contains(label, "배달완료"):
		return tracker.StatusDelivered
	default:
		return tracker.StatusUnknown
	}
}
