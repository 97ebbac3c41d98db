// Package overlay derives chart reference lines from an indicator snapshot.
//
// The derivation is pure: the same snapshot always yields the same ordered
// line list, and an absent value yields no line (never a line at zero).
package overlay

import (
	"fmt"

	"github.com/web3guy0/algodash/internal/model"
)

// Role classifies a reference line for styling purposes.
type Role string

const (
	SupportPrimary      Role = "support-primary"
	SupportSecondary    Role = "support-secondary"
	ResistancePrimary   Role = "resistance-primary"
	ResistanceSecondary Role = "resistance-secondary"
	CurrentPrice        Role = "current-price"
)

// ReferenceLine is one horizontal overlay on the price chart. Rank is the
// emission order; the current-price line always ranks last so it draws on
// top of everything else.
type ReferenceLine struct {
	Value float64
	Role  Role
	Label string
	Rank  int
}

// Derive computes the ordered reference lines for an indicator snapshot.
//
// Detailed level lists win over the scalar fallbacks: when support_levels
// is non-empty, every entry gets a line (index 0 primary, the rest
// secondary, labeled S1, S2, ...); otherwise the scalar support value, if
// present, gets a single primary line. Resistance is symmetric.
func Derive(ind model.Indicators) []ReferenceLine {
	var lines []ReferenceLine

	add := func(value float64, role Role, label string) {
		lines = append(lines, ReferenceLine{
			Value: value,
			Role:  role,
			Label: label,
			Rank:  len(lines),
		})
	}

	if len(ind.SupportLevels) > 0 {
		for i, lvl := range ind.SupportLevels {
			role := SupportSecondary
			if i == 0 {
				role = SupportPrimary
			}
			add(lvl.Level, role, fmt.Sprintf("S%d", i+1))
		}
	} else if ind.Support != nil {
		add(*ind.Support, SupportPrimary, "Support")
	}

	if len(ind.ResistanceLevels) > 0 {
		for i, lvl := range ind.ResistanceLevels {
			role := ResistanceSecondary
			if i == 0 {
				role = ResistancePrimary
			}
			add(lvl.Level, role, fmt.Sprintf("R%d", i+1))
		}
	} else if ind.Resistance != nil {
		add(*ind.Resistance, ResistancePrimary, "Resistance")
	}

	if ind.CurrentPrice != nil {
		add(*ind.CurrentPrice, CurrentPrice, "Current")
	}

	return lines
}
