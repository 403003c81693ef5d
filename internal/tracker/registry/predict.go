package registry

import "github.com/BearBump/TrackGate/internal/tracker"

// PredictCarriers подбирает кандидатов по форме номера: длина и алфавит.
// Это эвристика, а не определение — результат лишь сужает перебор для
// вызывающего. Порядок кандидатов стабилен между вызовами.
func (r *Registry) PredictCarriers(trackingNumber string) []tracker.CarrierInfo {
	num := tracker.CleanNumber(trackingNumber)
	if num == "" {
		return nil
	}

	ids := predictIDs(num)
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(ids))
	out := make([]tracker.CarrierInfo, 0, len(ids))
	for _, id := range ids {
		if seen[id] || !r.IsSupported(id) {
			continue
		}
		seen[id] = true
		if info, ok := r.byID[id]; ok {
			out = append(out, info)
		}
	}
	return out
}

func predictIDs(num string) []string {
	if !tracker.IsDigits(num) {
		if len(num) == 12 && tracker.IsAlphanumeric(num) {
			return []string{"SLX"}
		}
		return nil
	}

	// Только форма: контрольную цифру здесь не проверяем, её проверит
	// сам адаптер перед сетевым вызовом.
	switch len(num) {
	case 9:
		return []string{"KDEXP"}
	case 10:
		return []string{"CJ"}
	case 11:
		return []string{"LOGEN"}
	case 12:
		return []string{"CJ", "HANJIN", "LOTTE"}
	case 13:
		return []string{"EPOST", "LOTTE"}
	case 14:
		return []string{"HANJIN"}
	}
	return nil
}
