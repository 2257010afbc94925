package fcimaps

import (
	"fmt"
	"strconv"
	"strings"
)

// ParallelSliceFieldName forms the unique, backwards-compatible name for a
// field at a given parallel offset. Single-step offsets omit the numeric
// suffix: ("R", 1) is "forward_R", ("Z", -3) is "backward_Z_3".
func ParallelSliceFieldName(field string, offset int) string {
	prefix := "forward"
	if offset < 0 {
		prefix = "backward"
	}
	if abs(offset) > 1 {
		return fmt.Sprintf("%s_%s_%d", prefix, field, abs(offset))
	}
	return fmt.Sprintf("%s_%s", prefix, field)
}

// ParseParallelSliceFieldName inverts ParallelSliceFieldName, returning the
// base field and offset encoded in name. ok is false for names that do not
// follow the scheme (including the base "R"/"Z" arrays).
func ParseParallelSliceFieldName(name string) (field string, offset int, ok bool) {
	sign := 0
	rest := ""
	switch {
	case strings.HasPrefix(name, "forward_"):
		sign, rest = 1, strings.TrimPrefix(name, "forward_")
	case strings.HasPrefix(name, "backward_"):
		sign, rest = -1, strings.TrimPrefix(name, "backward_")
	default:
		return "", 0, false
	}
	if rest == "" {
		return "", 0, false
	}
	if i := strings.LastIndex(rest, "_"); i > 0 {
		if n, err := strconv.Atoi(rest[i+1:]); err == nil && n > 1 {
			return rest[:i], sign * n, true
		}
	}
	return rest, sign, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
