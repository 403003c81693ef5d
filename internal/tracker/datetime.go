package tracker

import (
	"strings"
	"time"
)

// Все поддерживаемые перевозчики — корейские, время событий они отдают
// в локальном времени без зоны.
var KST = time.FixedZone("KST", 9*60*60)

// Наблюдаемые у перевозчиков представления даты/времени. Порядок важен:
// более специфичные раскладки идут первыми.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"20060102 150405",
	"20060102 1504",
	"2006-01-02",
	"20060102",
}

// ParseDateTime сводит четыре встречающихся формата к одному значению:
// ISO-8601, "YYYY-MM-DD"+"HH:MM[:SS]", "YYYY.MM.DD[ HH:MM]" и сплошные
// цифры "YYYYMMDD"+"HHMMSS". Непарсибельное -> nil, никогда не паника.
// Сентинельное "неизвестное время" (прочерки) деградирует до полуночи даты.
func ParseDateTime(dateStr, timeStr string) *time.Time {
	d := strings.TrimSpace(dateStr)
	if d == "" {
		return nil
	}
	// Точечная форма "2025.01.31" приводится к дефисной.
	d = strings.ReplaceAll(d, ".", "-")
	d = strings.TrimSuffix(d, "-") // хвостовая точка после замены

	tm := strings.TrimSpace(timeStr)
	if isTimeSentinel(tm) {
		tm = ""
	}

	s := d
	if tm != "" && !strings.ContainsAny(d, "T:") {
		s = d + " " + tm
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, KST); err == nil {
			return &t
		}
	}
	return nil
}

// Прочерки и прочие заглушки вместо времени ("--:--", "-", "::").
func isTimeSentinel(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch r {
		case '-', ':', ' ':
		default:
			return false
		}
	}
	return true
}
