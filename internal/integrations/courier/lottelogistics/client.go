package lottelogistics

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/BearBump/TrackGate/internal/tracker"
	"github.com/pkg/errors"
)

var carrierRef = tracker.CarrierRef{ID: "LOTTE", Name: "롯데택배"}

type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://www.lotteglogis.com"
	}
	return &Client{baseURL: baseURL, hc: tracker.NewHTTPClient()}
}

type invoiceResp struct {
	Result  string `json:"result"`
	Message string `json:"message"`
	Invoice struct {
		No         string `json:"no"`
		DetailKey  string `json:"detailKey"`
		SenderNm   string `json:"senderNm"`
		ReceiverNm string `json:"receiverNm"`
		GoodsNm    string `json:"goodsNm"`
	} `json:"invoice"`
}

type invoiceDetailResp struct {
	Events []struct {
		ProcDt   string `json:"procDt"` // YYYYMMDD
		ProcTm   string `json:"procTm"` // HHMMSS
		BranchNm string `json:"branchNm"`
		StatusCd string `json:"statusCd"`
		StatusNm string `json:"statusNm"`
	} `json:"events"`
}

func (c *Client) Track(ctx context.Context, trackingNumber string) tracker.TrackInfo {
	num := tracker.CleanNumber(trackingNumber)
	if err := validate(num); err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, err.Error())
	}

	b, err := tracker.PostJSON(ctx, c.hc, c.baseURL+"/ftr/tracking/invoice", map[string]string{"invoiceNo": num})
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "upstream request failed: "+err.Error())
	}
	var inv invoiceResp
	if err := json.Unmarshal(b, &inv); err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "운송장 조회 결과가 없습니다")
	}
	if inv.Result != "OK" {
		msg := inv.Message
		if msg == "" {
			msg = "운송장 조회 결과가 없습니다"
		}
		return tracker.ErrorResult(carrierRef, trackingNumber, msg)
	}

	// Вторым вызовом забираем историю по ключу из первого ответа.
	b, err = tracker.PostJSON(ctx, c.hc, c.baseURL+"/ftr/tracking/detail", map[string]string{"detailKey": inv.Invoice.DetailKey})
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "upstream request failed: "+err.Error())
	}
	var det invoiceDetailResp
	if err := json.Unmarshal(b, &det); err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "운송장 조회 결과가 없습니다")
	}

	events := make([]tracker.TrackEvent, 0, len(det.Events))
	for _, e := range det.Events {
		events = append(events, tracker.NewEvent(
			parseStatus(e.StatusCd),
			tracker.StrPtr(e.StatusNm),
			tracker.ParseDateTime(e.ProcDt, e.ProcTm),
			tracker.StrPtr(e.BranchNm),
			e.StatusNm,
		))
	}

	res := tracker.SuccessResult(carrierRef, trackingNumber, events)
	res.Sender = &tracker.Party{Name: tracker.StrPtr(inv.Invoice.SenderNm)}
	res.Recipient = &tracker.Party{Name: tracker.StrPtr(inv.Invoice.ReceiverNm)}
	res.ProductName = tracker.StrPtr(inv.Invoice.GoodsNm)
	return res
}

func validate(num string) error {
	if !tracker.IsDigits(num) || (len(num) != 12 && len(num) != 13) {
		return errors.New("invalid tracking number: expected 12 or 13 digits")
	}
	if len(num) == 12 && !tracker.Mod7Check(num) {
		return errors.New("invalid tracking number: checksum mismatch")
	}
	return nil
}

func parseStatus(code string) tracker.StatusCode {
	switch code {
	case "10":
		return tracker.StatusInformationReceived
	case "20":
		return tracker.StatusAtPickup
	case "40":
		return tracker.StatusInTransit
	case "41":
		return tracker.StatusOutForDelivery
	case "98":
		return tracker.StatusAttemptFail
	case "99":
		return tracker.StatusDelivered
	default:
		return tracker.StatusUnknown
	}
}
