package match

import (
	"fmt"
	"strings"
)

const (
	FormatBo1 = "bo1"
	FormatBo3 = "bo3"
	FormatBo5 = "bo5"
	FormatBo7 = "bo7"
)

// Format describes a best-of-N series.
type Format struct {
	Name         string
	MaxMaps      int
	WinThreshold int
}

var formats = map[string]Format{
	FormatBo1: {Name: FormatBo1, MaxMaps: 1, WinThreshold: 1},
	FormatBo3: {Name: FormatBo3, MaxMaps: 3, WinThreshold: 2},
	FormatBo5: {Name: FormatBo5, MaxMaps: 5, WinThreshold: 3},
	FormatBo7: {Name: FormatBo7, MaxMaps: 7, WinThreshold: 4},
}

// ParseFormat is strict: unknown names are rejected.
func ParseFormat(value string) (Format, bool) {
	f, ok := formats[strings.ToLower(strings.TrimSpace(value))]
	return f, ok
}

// ResolveFormat falls back to bo3 for unknown or missing values.
func ResolveFormat(value string) Format {
	if f, ok := ParseFormat(value); ok {
		return f
	}
	return formats[FormatBo3]
}

func (f Format) WinCondition() string {
	return fmt.Sprintf("First to %d wins", f.WinThreshold)
}
