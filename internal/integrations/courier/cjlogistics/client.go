package cjlogistics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/BearBump/TrackGate/internal/tracker"
	"github.com/pkg/errors"
)

var carrierRef = tracker.CarrierRef{ID: "CJ", Name: "CJ대한통운"}

type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://www.cjlogistics.com"
	}
	return &Client{baseURL: baseURL, hc: tracker.NewHTTPClient()}
}

type waybillResp struct {
	ParcelResultMap struct {
		ResultList []struct {
			InvcNo  string `json:"invcNo"`
			SendrNm string `json:"sendrNm"`
			RcvrNm  string `json:"rcvrNm"`
			ItemNm  string `json:"itemNm"`
		} `json:"resultList"`
	} `json:"parcelResultMap"`
}

type detailResp struct {
	ParcelDetailResultMap struct {
		ResultList []struct {
			DTime    string `json:"dTime"`
			RegionNm string `json:"regionNm"`
			ScanNm   string `json:"scanNm"`
			CrgSt    string `json:"crgSt"`
		} `json:"resultList"`
	} `json:"parcelDetailResultMap"`
}

func (c *Client) Track(ctx context.Context, trackingNumber string) tracker.TrackInfo {
	num := tracker.CleanNumber(trackingNumber)
	if err := validate(num); err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, err.Error())
	}

	// Шаг 1: поиск накладной, отсюда же отправитель/получатель.
	b, err := tracker.PostForm(ctx, c.hc, c.baseURL+"/ko/tool/parcel/tracking",
		url.Values{"paramInvcNo": {num}}, nil)
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "upstream request failed: "+err.Error())
	}
	var wb waybillResp
	if err := json.Unmarshal(b, &wb); err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "배송 정보를 찾을 수 없습니다")
	}
	if len(wb.ParcelResultMap.ResultList) == 0 {
		return tracker.ErrorResult(carrierRef, trackingNumber, "운송장이 등록되지 않았습니다")
	}
	head := wb.ParcelResultMap.ResultList[0]

	// Шаг 2: детализация по номеру накладной из первого ответа.
	b, err = tracker.PostForm(ctx, c.hc, c.baseURL+"/ko/tool/parcel/tracking-detail",
		url.Values{"paramInvcNo": {head.InvcNo}}, nil)
	if err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "upstream request failed: "+err.Error())
	}
	var det detailResp
	if err := json.Unmarshal(b, &det); err != nil {
		return tracker.ErrorResult(carrierRef, trackingNumber, "배송 정보를 찾을 수 없습니다")
	}

	events := make([]tracker.TrackEvent, 0, len(det.ParcelDetailResultMap.ResultList))
	for _, row := range det.ParcelDetailResultMap.ResultList {
		events = append(events, tracker.NewEvent(
			parseStatus(row.CrgSt),
			tracker.StrPtr(row.ScanNm),
			tracker.ParseDateTime(row.DTime, ""),
			tracker.StrPtr(row.RegionNm),
			row.ScanNm,
		))
	}

	res := tracker.SuccessResult(carrierRef, trackingNumber, events)
	res.Sender = &tracker.Party{Name: tracker.StrPtr(head.SendrNm)}
	res.Recipient = &tracker.Party{Name: tracker.StrPtr(head.RcvrNm)}
	res.ProductName = tracker.StrPtr(head.ItemNm)
	return res
}

func validate(num string) error {
	if !tracker.IsDigits(num) || (len(num) != 10 && len(num) != 12) {
		return errors.New("invalid tracking number: expected 10 or 12 digits")
	}
	if len(num) == 12 && !tracker.Mod7Check(num) {
		return fmt.Errorf("invalid tracking number: checksum mismatch")
	}
	return nil
}

// Коды crgSt из ответа CJ; всё неизвестное -> UNKNOWN.
func parseStatus(code string) tracker.StatusCode {
	switch code {
	case "11":
		return tracker.StatusAtPickup
	case "41", "42", "44":
		return tracker.StatusInTransit
	case "82":
		return tracker.StatusOutForDelivery
	case "91":
		return tracker.StatusDelivered
	default:
		return tracker.StatusUnknown
	}
}
