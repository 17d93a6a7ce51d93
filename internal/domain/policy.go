package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// MergePolicy decides which cart line an added item lands on.
type MergePolicy int

const (
	// MergeByItem keys lines by item id only. Re-adding an item with a
	// different modifier selection bumps the existing line's quantity and
	// the new selection is dropped.
	MergeByItem MergePolicy = iota
	// MergeByModifiers keys lines by item id plus the chosen option ids, so
	// each distinct customisation gets its own line.
	MergeByModifiers
)

func ParseMergePolicy(s string) (MergePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "item":
		return MergeByItem, nil
	case "modifiers":
		return MergeByModifiers, nil
	default:
		return MergeByItem, fmt.Errorf("merge policy[%s] is not valid", s)
	}
}

func (p MergePolicy) String() string {
	switch p {
	case MergeByItem:
		return "item"
	case MergeByModifiers:
		return "modifiers"
	default:
		return "unknown"
	}
}

// LineKey returns the key of the line the item belongs to, e.g. "12" or "12:3,7".
func (p MergePolicy) LineKey(item Item) string {
	id := strconv.FormatInt(item.ID, 10)
	if p != MergeByModifiers || len(item.Modifiers) == 0 {
		return id
	}

	optionIDs := make([]int64, 0, len(item.Modifiers))
	for _, m := range item.Modifiers {
		optionIDs = append(optionIDs, m.OptionID)
	}
	slices.Sort(optionIDs)

	parts := make([]string, len(optionIDs))
	for i, optionID := range optionIDs {
		parts[i] = strconv.FormatInt(optionID, 10)
	}

	return id + ":" + strings.Join(parts, ",")
}
