package hanjin

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/BearBump/TrackGate/internal/tracker"
	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

var carrierRef = tracker.CarrierRef{ID: "HANJIN", Name: "한진택배"}

type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://www.hanjin.co.kr"
	}
	return &Client{baseURL: baseURL, hc: tracker.NewHTTPClient()}
}

func (c *Client) Track(ctx context.Context, trackingNumber string) tracker.TrackInfo {
	num := tracker.CleanNumber(trackingNumber)
	if err := validate(num); err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, err.Error())
	}

	u := c.baseURL + "/kor/CMS/DeliveryMgr/WaybillResult.do?mCode=MN038&schLang=KR&wblnumText2=" + url.QueryEscape(num)
	doc, err := tracker.GetDocument(ctx, c.hc, u)
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "upstream request failed: "+err.Error())
	}

	info, err := parsePage(doc, trackingNumber)
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, err.Error())
	}
	return info
}

// Номера Hanjin: 12 цифр с контрольной по модулю 7 либо 14 цифр без неё.
func validate(num string) error {
	if !tracker.IsDigits(num) || (len(num) != 12 && len(num) != 14) {
		return errors.New("invalid tracking number: expected 12 or 14 digits")
	}
	if len(num) == 12 && !tracker.Mod7Check(num) {
		return errors.New("invalid tracking number: checksum mismatch")
	}
	return nil
}

func parsePage(doc *goquery.Document, trackingNumber string) (tracker.TrackInfo, error) {
	if strings.Contains(doc.Text(), "조회된 데이터가 없습니다") {
		return tracker.TrackInfo{}, errors.New("조회된 데이터가 없습니다")
	}

	rows := doc.Find("table.board-list-table tbody tr")
	events := make([]tracker.TrackEvent, 0, rows.Length())
	rows.Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		date := strings.TrimSpace(cells.Eq(0).Text())
		tm := strings.TrimSpace(cells.Eq(1).Text())
		location := strings.TrimSpace(cells.Eq(2).Text())
		desc := strings.TrimSpace(cells.Eq(3).Text())
		events = append(events, tracker.NewEvent(
			parseStatus(desc),
			tracker.StrPtr(desc),
			tracker.ParseDateTime(date, tm),
			tracker.StrPtr(location),
			desc,
		))
	})
	if len(events) == 0 {
		return tracker.TrackInfo{}, errors.New("배송 내역을 찾을 수 없습니다")
	}
	return tracker.SuccessResult(carrierRef, trackingNumber, events), nil
}

func parseStatus(desc string) tracker.StatusCode {
	switch {
	case strings.Contains(desc, "접수"):
		return tracker.StatusInformationReceived
	case strings.Contains(desc, "집하"):
		return tracker.StatusAtPickup
	case strings.Contains(desc, "이동중"), strings.Contains(desc, "도착"), strings.Contains(desc, "상차"), strings.Contains(desc, "하차"):
		return tracker.StatusInTransit
	case strings.Contains(desc, "배송출발"):
		return tracker.StatusOutForDelivery
	case strings.Contains(desc, "배송완료"):
		return tracker.StatusDelivered
	default:
		return tracker.StatusUnknown
	}
}
