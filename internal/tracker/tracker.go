package tracker

import (
	"context"
	"time"
)

// CarrierRef — ссылка на перевозчика внутри результата трекинга.
type CarrierRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CarrierInfo — статические метаданные перевозчика из реестра.
// Заполняется один раз на старте процесса и дальше не меняется.
type CarrierInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`

	// Известные длины трек-номера; пустой срез = правило валидации неизвестно.
	TrackingNumberLengths []int  `json:"trackingNumberLengths,omitempty"`
	TrackingNumberPattern string `json:"trackingNumberPattern,omitempty"`

	TestTrackingNumber string `json:"testTrackingNumber,omitempty"`
}

func (c CarrierInfo) Ref() CarrierRef {
	return CarrierRef{ID: c.ID, Name: c.DisplayName}
}

type EventStatus struct {
	Code StatusCode `json:"code"`
	// Name — собственная формулировка перевозчика, сохраняем даже
	// когда нормализация теряет оттенки.
	Name *string `json:"name"`
}

type TrackEvent struct {
	Status      EventStatus `json:"status"`
	Time        *time.Time  `json:"time"`
	Location    *string     `json:"location"`
	Description string      `json:"description"`
}

type Party struct {
	Name    *string `json:"name"`
	Address *string `json:"address,omitempty"`
}

// TrackInfo — полный результат одного запроса трекинга.
// Инвариант: !Success => Events пуст и Error непустой; Success => Error == "".
type TrackInfo struct {
	Success        bool         `json:"success"`
	Carrier        CarrierRef   `json:"carrier"`
	TrackingNumber string       `json:"trackingNumber"`
	Sender         *Party       `json:"sender,omitempty"`
	Recipient      *Party       `json:"recipient,omitempty"`
	ProductName    *string      `json:"productName,omitempty"`
	Events         []TrackEvent `json:"events"`
	Error          string       `json:"error,omitempty"`
}

// LastEvent возвращает последнее (самое свежее) событие или nil.
func (t TrackInfo) LastEvent() *TrackEvent {
	if len(t.Events) == 0 {
		return nil
	}
	return &t.Events[len(t.Events)-1]
}

// Adapter — единственная способность, которую обязан поддерживать каждый
// перевозчик. Track никогда не паникует и не возвращает ошибку: любой сбой
// (валидация, транспорт, кривая разметка, "не найдено") сворачивается в
// TrackInfo с Success=false.
type Adapter interface {
	Track(ctx context.Context, trackingNumber string) TrackInfo
}
