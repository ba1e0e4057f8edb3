package version

import (
	"fmt"
	"time"
)

// ChangeKind classifies a change record
type ChangeKind string

const (
	ChangeFieldChanged     ChangeKind = "field_changed"
	ChangeComponentAdded   ChangeKind = "component_added"
	ChangeComponentRemoved ChangeKind = "component_removed"
)

// ChangeRecord describes one difference between two versions.
type ChangeRecord struct {
	Kind        ChangeKind `json:"kind"`
	Field       string     `json:"field,omitempty"`
	OldValue    any        `json:"old_value,omitempty"`
	NewValue    any        `json:"new_value,omitempty"`
	ComponentID string     `json:"component_id,omitempty"`
}

// Diff produces the ordered change set from base to target. Field-level
// changes are detected for title, value, start date and end date; components
// are diffed by identifier set only. A component present in both versions
// with altered configuration produces no record; callers depend on this
// output shape.
func Diff(base, target *ContractVersion) []ChangeRecord {
	var changes []ChangeRecord

	if base.Title != target.Title {
		changes = append(changes, ChangeRecord{Kind: ChangeFieldChanged, Field: "title", OldValue: base.Title, NewValue: target.Title})
	}
	if base.Value != target.Value {
		changes = append(changes, ChangeRecord{Kind: ChangeFieldChanged, Field: "value", OldValue: base.Value, NewValue: target.Value})
	}
	if !equalDate(base.StartDate, target.StartDate) {
		changes = append(changes, ChangeRecord{Kind: ChangeFieldChanged, Field: "start_date", OldValue: base.StartDate, NewValue: target.StartDate})
	}
	if !equalDate(base.EndDate, target.EndDate) {
		changes = append(changes, ChangeRecord{Kind: ChangeFieldChanged, Field: "end_date", OldValue: base.EndDate, NewValue: target.EndDate})
	}

	baseIDs := componentIDs(base.Components)
	targetIDs := componentIDs(target.Components)

	for _, comp := range target.Components {
		if _, ok := baseIDs[comp.ComponentID]; !ok {
			changes = append(changes, ChangeRecord{Kind: ChangeComponentAdded, ComponentID: comp.ComponentID})
		}
	}
	for _, comp := range base.Components {
		if _, ok := targetIDs[comp.ComponentID]; !ok {
			changes = append(changes, ChangeRecord{Kind: ChangeComponentRemoved, ComponentID: comp.ComponentID})
		}
	}

	return changes
}

func componentIDs(components []ComponentAssignment) map[string]struct{} {
	ids := make(map[string]struct{}, len(components))
	for _, comp := range components {
		ids[comp.ComponentID] = struct{}{}
	}
	return ids
}

func equalDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// NextNumber returns the version number following prev: the minor component
// incremented, or v1.0 when prev is empty.
func NextNumber(prev string) (string, error) {
	if prev == "" {
		return "v1.0", nil
	}
	var major, minor int
	if _, err := fmt.Sscanf(prev, "v%d.%d", &major, &minor); err != nil {
		return "", fmt.Errorf("malformed version number %q: %w", prev, err)
	}
	return fmt.Sprintf("v%d.%d", major, minor+1), nil
}
