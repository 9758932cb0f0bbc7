package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	NotAvailable = "N/A"
	InvalidDate  = "Fecha inválida"

	// backendLayout соответствует LocalDateTime на стороне бэкенда
	backendLayout = "2006-01-02T15:04:05"
)

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	backendLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseBackendDate normalizes the three date shapes the backend emits: an ISO-8601
// string, a component array [year, month, day, hour?, minute?, second?] with a
// 1-based month, or an already built time value. ok is false when v is none of them.
func ParseBackendDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if d.IsZero() {
			return time.Time{}, false
		}
		return d, true
	case *time.Time:
		if d == nil {
			return time.Time{}, false
		}
		return ParseBackendDate(*d)
	case BackendTime:
		return ParseBackendDate(d.Time)
	case string:
		return parseISO(d)
	case []int:
		parts := make([]float64, len(d))
		for i, p := range d {
			parts[i] = float64(p)
		}
		return fromComponents(parts)
	case []float64:
		return fromComponents(d)
	case []any:
		parts := make([]float64, 0, len(d))
		for _, p := range d {
			switch n := p.(type) {
			case float64:
				parts = append(parts, n)
			case int:
				parts = append(parts, float64(n))
			case json.Number:
				f, err := n.Float64()
				if err != nil {
					return time.Time{}, false
				}
				parts = append(parts, f)
			default:
				return time.Time{}, false
			}
		}
		return fromComponents(parts)
	}
	return time.Time{}, false
}

func parseISO(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		var (
			t   time.Time
			err error
		)
		// строки без зоны трактуем как локальное время
		if strings.Contains(layout, "Z07") {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func fromComponents(parts []float64) (time.Time, bool) {
	if len(parts) < 3 || len(parts) > 7 {
		return time.Time{}, false
	}
	c := [7]int{}
	for i, p := range parts {
		if math.IsNaN(p) || math.IsInf(p, 0) || p != math.Trunc(p) {
			return time.Time{}, false
		}
		c[i] = int(p)
	}
	if c[1] < 1 || c[1] > 12 || c[2] < 1 || c[2] > 31 {
		return time.Time{}, false
	}
	// седьмой элемент у LocalDateTime это наносекунды
	return time.Date(c[0], time.Month(c[1]), c[2], c[3], c[4], c[5], c[6], time.Local), true
}

// BackendTime decodes any backend date shape. Unparseable values become the zero time.
type BackendTime struct {
	time.Time
}

func NewBackendTime(t time.Time) BackendTime {
	return BackendTime{Time: t}
}

func (t *BackendTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode date: %w", err)
	}

	parsed, ok := ParseBackendDate(raw)
	if !ok {
		t.Time = time.Time{}
		return nil
	}
	t.Time = parsed
	return nil
}

func (t BackendTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(backendLayout))
}

// Valid reports whether a date was present and parseable.
func (t BackendTime) Valid() bool {
	return !t.IsZero()
}
