package quiz

import (
	"fmt"
	"strings"
)

// Category classifies the lineage relationship between two people in a graph.
type Category string

const (
	Ancestor         Category = "ANCESTOR"
	Descendant       Category = "DESCENDANT"
	CommonAncestor   Category = "COMMON_ANCESTOR"
	CommonDescendant Category = "COMMON_DESCENDANT"
	None             Category = "NONE"
)

// Categories returns the four substantive categories in generation order.
// None is never generated; it exists only as the classifier fallback and the
// always-false fifth answer option.
func Categories() []Category {
	return []Category{Ancestor, Descendant, CommonAncestor, CommonDescendant}
}

func ParseCategory(s string) (Category, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(Ancestor):
		return Ancestor, nil
	case string(Descendant):
		return Descendant, nil
	case string(CommonAncestor):
		return CommonAncestor, nil
	case string(CommonDescendant):
		return CommonDescendant, nil
	case string(None):
		return None, nil
	default:
		return "", fmt.Errorf("quiz: unknown category %q", s)
	}
}

func (c Category) String() string { return string(c) }

func (c Category) valid() bool {
	switch c {
	case Ancestor, Descendant, CommonAncestor, CommonDescendant, None:
		return true
	default:
		return false
	}
}
