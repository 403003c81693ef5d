package tracker

// Нормализованные статусы доставки (закрытый набор).
// Всё, что не удалось сопоставить, попадает в UNKNOWN, аномалии — в EXCEPTION.
type StatusCode string

const (
	StatusUnknown             StatusCode = "UNKNOWN"
	StatusInformationReceived StatusCode = "INFORMATION_RECEIVED"
	StatusAtPickup            StatusCode = "AT_PICKUP"
	StatusInTransit           StatusCode = "IN_TRANSIT"
	StatusOutForDelivery      StatusCode = "OUT_FOR_DELIVERY"
	StatusAttemptFail         StatusCode = "ATTEMPT_FAIL"
	StatusDelivered           StatusCode = "DELIVERED"
	StatusAvailableForPickup  StatusCode = "AVAILABLE_FOR_PICKUP"
	StatusException           StatusCode = "EXCEPTION"
)

var allStatuses = map[StatusCode]struct{}{
	StatusUnknown:             {},
	StatusInformationReceived: {},
	StatusAtPickup:            {},
	StatusInTransit:           {},
	StatusOutForDelivery:      {},
	StatusAttemptFail:         {},
	StatusDelivered:           {},
	StatusAvailableForPickup:  {},
	StatusException:           {},
}

func (s StatusCode) Valid() bool {
	_, ok := allStatuses[s]
	return ok
}

// Terminal отмечает статусы, после которых трек больше не меняется.
func (s StatusCode) Terminal() bool {
	return s == StatusDelivered
}
