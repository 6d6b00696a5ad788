package util

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRangeSpec converts a range spec string (e.g. "0-2", "0,1,3",
// "0-2,5") to an ordered slice of non-negative ints. Order is preserved
// as written; duplicates are rejected because they would double-count
// candidates in a grid.
func ParseRangeSpec(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("empty range spec")
	}

	var values []int
	seen := make(map[int]bool)

	add := func(v int) error {
		if v < 0 {
			return fmt.Errorf("negative value %d in range spec %q", v, spec)
		}
		if seen[v] {
			return fmt.Errorf("duplicate value %d in range spec %q", v, spec)
		}
		seen[v] = true
		values = append(values, v)
		return nil
	}

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty element in range spec %q", spec)
		}

		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("invalid range start %q: %w", lo, err)
			}
			end, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid range end %q: %w", hi, err)
			}
			if end < start {
				return nil, fmt.Errorf("descending range %q in spec %q", part, spec)
			}
			for v := start; v <= end; v++ {
				if err := add(v); err != nil {
					return nil, err
				}
			}
			continue
		}

		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q in range spec %q: %w", part, spec, err)
		}
		if err := add(v); err != nil {
			return nil, err
		}
	}

	return values, nil
}
