package tracker

import (
	"fmt"
	"time"
)

// Конструкторы результатов. Адаптеры обязаны собирать TrackInfo только через
// них, чтобы нельзя было получить Success=true с Error или наоборот.

func SuccessResult(carrier CarrierRef, trackingNumber string, events []TrackEvent) TrackInfo {
	if events == nil {
		events = []TrackEvent{}
	}
	return TrackInfo{
		Success:        true,
		Carrier:        carrier,
		TrackingNumber: trackingNumber,
		Events:         events,
	}
}

func ErrorResult(carrier CarrierRef, trackingNumber, msg string) TrackInfo {
	if msg == "" {
		msg = "tracking failed"
	}
	return TrackInfo{
		Success:        false,
		Carrier:        carrier,
		TrackingNumber: trackingNumber,
		Events:         []TrackEvent{},
		Error:          msg,
	}
}

// NewEvent нормализует код и синтезирует описание "{status} - {location}",
// когда перевозчик не дал осмысленного текста.
func NewEvent(code StatusCode, name *string, t *time.Time, location *string, description string) TrackEvent {
	if !code.Valid() {
		code = StatusUnknown
	}
	if description == "" {
		loc := "unknown location"
		if location != nil && *location != "" {
			loc = *location
		}
		description = fmt.Sprintf("%s - %s", code, loc)
	}
	return TrackEvent{
		Status:      EventStatus{Code: code, Name: name},
		Time:        t,
		Location:    location,
		Description: description,
	}
}

// StrPtr: пустая строка считается отсутствием значения.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
