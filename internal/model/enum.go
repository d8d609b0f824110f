package model

import (
	"strings"

	"github.com/samber/lo"
)

func parseEnum[T ~string](raw string, all []T) (T, bool) {
	v := T(strings.TrimSpace(raw))
	return v, lo.Contains(all, v)
}

func enumStrings[T ~string](all []T) []string {
	return lo.Map(all, func(v T, _ int) string { return string(v) })
}
