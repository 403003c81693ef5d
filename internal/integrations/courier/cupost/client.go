package cupost

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/BearBump/TrackGate/internal/tracker"
	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

var carrierRef = tracker.CarrierRef{ID: "CUPOST", Name: "CU편의점택배"}

// Трекинг CU живёт за сессией: сначала GET страницы формы, оттуда CSRF-токен
// и кука, и только потом POST с самим номером.
type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://www.cupost.co.kr"
	}
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 10 * time.Second, Jar: jar},
	}
}

func (c *Client) Track(ctx context.Context, trackingNumber string) tracker.TrackInfo {
	num := tracker.CleanNumber(trackingNumber)
	if !tracker.IsDigits(num) {
		return tracker.ErrorResult(carrierRef, trackingNumber, "invalid tracking number: digits expected")
	}

	token, err := c.fetchCSRFToken(ctx)
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "upstream request failed: "+err.Error())
	}

	form := url.Values{"invoice_no": {num}, "_csrf": {token}}
	b, err := tracker.PostForm(ctx, c.hc, c.baseURL+"/postbox/delivery/localResult.cupost", form, nil)
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "upstream request failed: "+err.Error())
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

func (c *Client) fetchCSRFToken(ctx context.Context) (string, error) {
	doc, err := tracker.GetDocument(ctx, c.hc, c.baseURL+"/postbox/delivery/local.cupost")
	if err != nil {
		return "", err
	}
	token, ok := doc.Find(`input[name="_csrf"]`).First().Attr("value")
	if !ok || token == "" {
		return "", errors.New("csrf token not found on landing page")
	}
	return token, nil
}

func parsePage(doc *goquery.Document, trackingNumber string) (tracker.TrackInfo, error) {
	if strings.Contains(doc.Text(), "조회된 내역이 없습니다") {
		return tracker.TrackInfo{}, errors.New("조회된 내역이 없습니다")
	}

	var events []tracker.TrackEvent
	doc.Find("table.tableType1 tbody tr").Each(func(_ int, row *goquery.Selection) {
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
		return tracker.TrackInfo{}, errors.New("조회된 내역이 없습니다")
	}
	return tracker.SuccessResult(carrierRef, trackingNumber, events), nil
}

func parseStatus(label string) tracker.StatusCode {
	switch {
	case strings.Contains(label, "점포접수"):
		return tracker.StatusInformationReceived
	case strings.Contains(label, "집화"), strings.Contains(label, "집하"):
		return tracker.StatusAtPickup
	case strings.Contains(label, "이동"), strings.Contains(label, "입고"), strings.Contains(label, "출고"):
		return tracker.StatusInTransit
	case strings.Contains(label, "점포도착"):
		return tracker.StatusAvailableForPickup
	case strings.Contains(label, "수령완료"):
		return tracker.StatusDelivered
	default:
		return tracker.StatusUnknown
	}
}
