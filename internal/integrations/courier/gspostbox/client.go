package gspostbox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/BearBump/TrackGate/internal/tracker"
)

var carrierRef = tracker.CarrierRef{ID: "GSPOSTBOX", Name: "GS Postbox 택배"}

// Особенность GS: явного события "доставлено" бэкенд не шлёт. Факт вручения
// выводится из события регистрации получателя (код C078).
type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://www.cvsnet.co.kr"
	}
	return &Client{baseURL: baseURL, hc: tracker.NewHTTPClient()}
}

type lookupResp struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	SerialNo string `json:"serialNo"`
	Sender   string `json:"senderName"`
	Receiver string `json:"receiverName"`
	Goods    string `json:"goodsName"`
}

type detailResp struct {
	TrackingDetails []struct {
		TransTime string `json:"transTime"` // ISO-8601
		Location  string `json:"location"`
		Code      string `json:"code"`
		Name      string `json:"name"`
	} `json:"trackingDetails"`
}

func (c *Client) Track(ctx context.Context, trackingNumber string) tracker.TrackInfo {
	num := tracker.CleanNumber(trackingNumber)
	if !tracker.IsDigits(num) {
		return tracker.ErrorResult(carrierRef, trackingNumber, "invalid tracking number: digits expected")
	}

	b, err := tracker.GetBytes(ctx, c.hc, c.baseURL+"/gspostbox/v1/tracking?invoice="+url.QueryEscape(num))
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "upstream request failed: "+err.Error())
	}
	var lk lookupResp
	if err := json.Unmarshal(b, &lk); err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "배송 정보를 찾을 수 없습니다")
	}
	if lk.Code != "200" || lk.SerialNo == "" {
		msg := lk.Message
		if msg == "" {
			msg = "등록된 택배 정보가 없습니다"
		}
		return tracker.ErrorResult(carrierRef, trackingNumber, msg)
	}

	b, err = tracker.GetBytes(ctx, c.hc, c.baseURL+"/gspostbox/v1/tracking/"+url.PathEscape(lk.SerialNo)+"/detail")
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "upstream request failed: "+err.Error())
	}
	var det detailResp
	if err := json.Unmarshal(b, &det); err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "배송 정보를 찾을 수 없습니다")
	}

	events := make([]tracker.TrackEvent, 0, len(det.TrackingDetails))
	for _, d := range det.TrackingDetails {
		events = append(events, tracker.NewEvent(
			parseStatus(d.Code),
			tracker.StrPtr(d.Name),
			tracker.ParseDateTime(d.TransTime, ""),
			tracker.StrPtr(d.Location),
			d.Name,
		))
	}
	events = inferDelivered(events, det)

	res := tracker.SuccessResult(carrierRef, trackingNumber, events)
	res.Sender = &tracker.Party{Name: tracker.StrPtr(lk.Sender)}
	res.Recipient = &tracker.Party{Name: tracker.StrPtr(lk.Receiver)}
	res.ProductName = tracker.StrPtr(lk.Goods)
	return res
}

// inferDelivered дописывает синтетическое DELIVERED по событию C078
// ("수령인 등록"), но только когда терминального события ещё нет —
// иначе при повторном опросе вручение задвоится.
func inferDelivered(events []tracker.TrackEvent, det detailResp) []tracker.TrackEvent {
	for _, e := range events {
		if e.Status.Code.Terminal() {
			return events
		}
	}
	for i, d := range det.TrackingDetails {
		if d.Code == "C078" {
			src := events[i]
			ev := tracker.NewEvent(
				tracker.StatusDelivered,
				tracker.StrPtr("배송완료"),
				src.Time,
				src.Location,
				"배송완료",
			)
			return append(events, ev)
		}
	}
	return events
}

func parseStatus(code string) tracker.StatusCode {
	switch code {
	case "C005":
		return tracker.StatusInformationReceived
	case "C015":
		return tracker.StatusAtPickup
	case "C025", "C035":
		return tracker.StatusInTransit
	case "C045":
		return tracker.StatusOutForDelivery
	case "C055":
		return tracker.StatusAvailableForPickup
	case "C099":
		// редкий, но встречающийся явный код вручения
		return tracker.StatusDelivered
	case "C078":
		// сама по себе регистрация получателя — не терминальный статус
		return tracker.StatusInTransit
	default:
		return tracker.StatusUnknown
	}
}
