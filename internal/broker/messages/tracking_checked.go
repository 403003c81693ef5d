package messages

import "time"

// TrackingChecked публикуется после каждого обращения к бэкенду
// перевозчика — и удачного, и нет. Потребители (батч-джоба, аналитика)
// сами решают, что делать с результатом.
type TrackingChecked struct {
	CarrierID      string    `json:"carrier_id"`
	TrackingNumber string    `json:"tracking_number"`
	CheckedAt      time.Time `json:"checked_at"`

	Success bool   `json:"success"`
	Status  string `json:"status,omitempty"`

	Error *string `json:"error,omitempty"`
}
