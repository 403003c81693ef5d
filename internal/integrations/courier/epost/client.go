package epost

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/BearBump/TrackGate/internal/tracker"
	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

var carrierRef = tracker.CarrierRef{ID: "EPOST", Name: "우체국택배"}

// Client ходит в легаси-портал почты: серверный HTML в EUC-KR.
type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://service.epost.go.kr"
	}
	return &Client{baseURL: baseURL, hc: tracker.NewHTTPClient()}
}

func (c *Client) Track(ctx context.Context, trackingNumber string) tracker.TrackInfo {
	num := tracker.CleanNumber(trackingNumber)
	if !tracker.IsDigits(num) || len(num) != 13 {
		return tracker.ErrorResult(carrierRef, trackingNumber, "invalid tracking number: expected 13 digits")
	}

	u := c.baseURL + "/trace.RetrieveDomRigiTraceList.comm?sid1=" + url.QueryEscape(num)
	doc, err := tracker.GetDocumentEUCKR(ctx, c.hc, u)
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
	if strings.Contains(doc.Text(), "배달정보를 찾을 수 없습니다") {
		return tracker.TrackInfo{}, errors.New("배달정보를 찾을 수 없습니다")
	}

	rows := doc.Find("table.detail_off tbody tr")
	if rows.Length() == 0 {
		// разметку перекроили или номер не найден — для вызывающего это одно и то же
		return tracker.TrackInfo{}, errors.New("배송 정보를 찾을 수 없습니다")
	}

	events := make([]tracker.TrackEvent, 0, rows.Length())
	rows.Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		date := strings.TrimSpace(cells.Eq(0).Text())
		tm := strings.TrimSpace(cells.Eq(1).Text())
		location := strings.TrimSpace(cells.Eq(2).Text())
		label := strings.TrimSpace(cells.Eq(3).Text())
		events = append(events, tracker.NewEvent(
			parseStatus(label),
			tracker.StrPtr(label),
			tracker.ParseDateTime(date, tm),
			tracker.StrPtr(location),
			label,
		))
	})
	if len(events) == 0 {
		return tracker.TrackInfo{}, errors.New("배송 정보를 찾을 수 없습니다")
	}

	res := tracker.SuccessResult(carrierRef, trackingNumber, events)
	if s := strings.TrimSpace(doc.Find("table.table_col tbody tr td.sender").First().Text()); s != "" {
		res.Sender = &tracker.Party{Name: tracker.StrPtr(s)}
	}
	if r := strings.TrimSpace(doc.Find("table.table_col tbody tr td.receiver").First().Text()); r != "" {
		res.Recipient = &tracker.Party{Name: tracker.StrPtr(r)}
	}
	return res, nil
}

// Уровни обработки у почты — свободный корейский текст, матчим по подстроке.
func parseStatus(label string) tracker.StatusCode {
	switch {
	case strings.Contains(label, "접수"):
		return tracker.StatusInformationReceived
	case strings.Contains(label, "발송"), strings.Contains(label, "도착"):
		return tracker.StatusInTransit
	case strings.Contains(label, "배달준비"):
		return tracker.StatusOutForDelivery
	case strings.Contains(label, "미배달"):
		return tracker.StatusAttemptFail
	case strings.Contains(label, "배달완료"):
		return tracker.StatusDelivered
	default:
		return tracker.StatusUnknown
	}
}
