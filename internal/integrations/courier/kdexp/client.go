package kdexp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/BearBump/TrackGate/internal/tracker"
	"github.com/pkg/errors"
)

var carrierRef = tracker.CarrierRef{ID: "KDEXP", Name: "경동택배"}

// Client сначала пробует новый JSON API; при любом сбое повторяет запрос
// в легаси-эндпоинт, который так и не выключили.
type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://kdexp.com"
	}
	return &Client{baseURL: baseURL, hc: tracker.NewHTTPClient()}
}

type apiResp struct {
	Result string `json:"result"`
	Items  []struct {
		Stage    string `json:"stage"`
		Location string `json:"location"`
		RegDate  string `json:"reg_date"` // "2025-01-31 13:05:42"
	} `json:"items"`
	Order struct {
		SendName string `json:"send_name"`
		RecvName string `json:"recv_name"`
		ProdName string `json:"prod_name"`
	} `json:"order"`
}

func (c *Client) Track(ctx context.Context, trackingNumber string) tracker.TrackInfo {
	num := tracker.CleanNumber(trackingNumber)
	if !tracker.IsDigits(num) || len(num) < 9 {
		return tracker.ErrorResult(carrierRef, trackingNumber, "invalid tracking number: expected at least 9 digits")
	}

	info, err := c.fetch(ctx, c.baseURL+"/common/base/order2?barcode="+url.QueryEscape(num), trackingNumber)
	if err == nil {
		return info
	}

	// Легаси-фоллбек: та же схема ответа, другой маршрут.
	info, ferr := c.fetch(ctx, c.baseURL+"/order/order_search.asp?barcode="+url.QueryEscape(num), trackingNumber)
	if ferr != nil {
		// наружу отдаём причину первого отказа, фоллбек — деталь реализации
		return tracker.ErrorResult(carrierRef, trackingNumber, err.Error())
	}
	return info
}

func (c *Client) fetch(ctx context.Context, rawURL, trackingNumber string) (tracker.TrackInfo, error) {
	b, err := tracker.GetBytes(ctx, c.hc, rawURL)
	if err != nil {
		return tracker.TrackInfo{}, errors.Wrap(err, "upstream request failed")
	}
	var resp apiResp
	if err := json.Unmarshal(b, &resp); err != nil {
		return tracker.TrackInfo{}, errors.New("배송 정보를 찾을 수 없습니다")
	}
	if !strings.EqualFold(resp.Result, "suc") {
		return tracker.TrackInfo{}, errors.New("해당 운송장이 존재하지 않습니다")
	}

	events := make([]tracker.TrackEvent, 0, len(resp.Items))
	for _, it := range resp.Items {
		events = append(events, tracker.NewEvent(
			parseStatus(it.Stage),
			tracker.StrPtr(it.Stage),
			tracker.ParseDateTime(it.RegDate, ""),
			tracker.StrPtr(it.Location),
			it.Stage,
		))
	}

	res := tracker.SuccessResult(carrierRef, trackingNumber, events)
	res.Sender = &tracker.Party{Name: tracker.StrPtr(resp.Order.SendName)}
	res.Recipient = &tracker.Party{Name: tracker.StrPtr(resp.Order.RecvName)}
	res.ProductName = tracker.StrPtr(resp.Order.ProdName)
	return res, nil
}

func parseStatus(stage string) tracker.StatusCode {
	switch {
	case strings.Contains(stage, "접수"):
		return tracker.StatusInformationReceived
	case strings.Contains(stage, "집하"):
		return tracker.StatusAtPickup
	case strings.Contains(stage, "상차"), strings.Contains(stage, "하차"), strings.Contains(stage, "간선"):
		return tracker.StatusInTransit
	case strings.Contains(stage, "배송출발"):
		return tracker.StatusOutForDelivery
	case strings.Contains(stage, "배송완료"):
		return tracker.StatusDelivered
	default:
		return tracker.StatusUnknown
	}
}
