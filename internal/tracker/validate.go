package tracker

import (
	"strconv"
	"strings"
)

// CleanNumber приводит трек-номер к каноническому виду: без пробелов и дефисов.
func CleanNumber(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
}

func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func IsAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}

// Mod7Check — распространённая у корейских перевозчиков контрольная цифра:
// последняя цифра равна остатку от деления остальной части номера на 7.
func Mod7Check(num string) bool {
	if len(num) < 2 || !IsDigits(num) {
		return false
	}
	body, err := strconv.ParseInt(num[:len(num)-1], 10, 64)
	if err != nil {
		return false
	}
	check := int64(num[len(num)-1] - '0')
	return body%7 == check
}
