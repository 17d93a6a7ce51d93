package repository

import (
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/orderup-cart/internal/domain"
	"github.com/shopspring/decimal"
)

// snapshotLine is one element of the persisted cart array.
type snapshotLine struct {
	ID                int64              `json:"id"`
	Name              string             `json:"name"`
	Price             number             `json:"price"`
	Description       string             `json:"description"`
	ImageURL          string             `json:"image_url,omitempty"`
	Quantity          int                `json:"quantity"`
	SelectedModifiers []snapshotModifier `json:"selectedModifiers,omitempty"`
}

type snapshotModifier struct {
	GroupID         int64  `json:"groupId"`
	GroupName       string `json:"groupName"`
	OptionID        int64  `json:"optionId"`
	OptionName      string `json:"optionName"`
	PriceAdjustment number `json:"priceAdjustment"`
}

// number encodes a decimal as a bare JSON number.
type number decimal.Decimal

func (n number) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(n).String()), nil
}

func (n *number) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*n = number(d)
	return nil
}

// MarshalLines encodes lines as the persisted JSON array.
func MarshalLines(lines []domain.Line) ([]byte, error) {
	snapshot := make([]snapshotLine, 0, len(lines))
	for _, line := range lines {
		snapshot = append(snapshot, snapshotLine{
			ID:                line.ID,
			Name:              line.Name,
			Price:             number(line.UnitPrice),
			Description:       line.Description,
			ImageURL:          line.ImageURL,
			Quantity:          line.Quantity,
			SelectedModifiers: mapModifiersToSnapshot(line.Modifiers),
		})
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}

// UnmarshalLines decodes the persisted JSON array. Line keys are left empty,
// the ledger assigns them on restore.
func UnmarshalLines(data []byte) ([]domain.Line, error) {
	var snapshot []snapshotLine
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	lines := make([]domain.Line, 0, len(snapshot))
	for _, s := range snapshot {
		lines = append(lines, domain.Line{
			Item: domain.Item{
				ID:          s.ID,
				Name:        s.Name,
				Description: s.Description,
				ImageURL:    s.ImageURL,
				UnitPrice:   decimal.Decimal(s.Price),
				Modifiers:   mapSnapshotToModifiers(s.SelectedModifiers),
			},
			Quantity: s.Quantity,
		})
	}

	return lines, nil
}

func marshalModifiers(mods []domain.SelectedModifier) ([]byte, error) {
	snapshot := mapModifiersToSnapshot(mods)
	if snapshot == nil {
		snapshot = []snapshotModifier{}
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}

func unmarshalModifiers(data []byte) ([]domain.SelectedModifier, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var snapshot []snapshotModifier
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return mapSnapshotToModifiers(snapshot), nil
}

func mapModifiersToSnapshot(mods []domain.SelectedModifier) []snapshotModifier {
	if len(mods) == 0 {
		return nil
	}

	result := make([]snapshotModifier, len(mods))
	for i, m := range mods {
		result[i] = snapshotModifier{
			GroupID:         m.GroupID,
			GroupName:       m.GroupName,
			OptionID:        m.OptionID,
			OptionName:      m.OptionName,
			PriceAdjustment: number(m.PriceAdjustment),
		}
	}
	return result
}

func mapSnapshotToModifiers(mods []snapshotModifier) []domain.SelectedModifier {
	if len(mods) == 0 {
		return nil
	}

	result := make([]domain.SelectedModifier, len(mods))
	for i, m := range mods {
		result[i] = domain.SelectedModifier{
			GroupID:         m.GroupID,
			GroupName:       m.GroupName,
			OptionID:        m.OptionID,
			OptionName:      m.OptionName,
			PriceAdjustment: decimal.Decimal(m.PriceAdjustment),
		}
	}
	return result
}
