package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type AttributeKind string

const (
	AttributeKindText     AttributeKind = "text"
	AttributeKindColor    AttributeKind = "color"
	AttributeKindSize     AttributeKind = "size"
	AttributeKindMaterial AttributeKind = "material"
	AttributeKindCustom   AttributeKind = "custom"
)

var AttributeKinds = []AttributeKind{
	AttributeKindText,
	AttributeKindColor,
	AttributeKindSize,
	AttributeKindMaterial,
	AttributeKindCustom,
}

// AttributeValue is one option of an Attribute, e.g. "Red".
type AttributeValue struct {
	ID            string          `json:"id"`
	Value         string          `json:"value"`
	PriceModifier decimal.Decimal `json:"priceModifier"`
	ColorCode     *string         `json:"colorCode,omitempty"`
	Description   *string         `json:"description,omitempty"`
}

// Attribute is a user-defined variant axis, e.g. "Color".
type Attribute struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Kind         AttributeKind    `json:"kind"`
	Values       []AttributeValue `json:"values"`
	DisplayOrder int              `json:"displayOrder"`
}

// IsEligible reports whether the attribute takes part in combination generation.
func (a Attribute) IsEligible() bool {
	return strings.TrimSpace(a.Name) != "" && len(a.Values) > 0
}

// AttributeIssue describes why an attribute is skipped or looks suspicious.
// Issues never block generation.
type AttributeIssue struct {
	AttributeID string `json:"attributeId"`
	Name        string `json:"name"`
	Reason      string `json:"reason"`
}

const (
	IssueEmptyName      = "empty_name"
	IssueNoValues       = "no_values"
	IssueDuplicateValue = "duplicate_value"
	IssueDuplicateName  = "duplicate_name"
)

// AttributeSet is the editable list of attributes for one product.
type AttributeSet []Attribute

// Eligible returns the attributes that take part in generation, in their original order.
func (s AttributeSet) Eligible() []Attribute {
	out := make([]Attribute, 0, len(s))
	for _, a := range s {
		if a.IsEligible() {
			out = append(out, a)
		}
	}
	return out
}

// Validate reports ineligible attributes, repeated attribute names and repeated
// value labels. Duplicate labels are tolerated by the generator and only flagged here.
func (s AttributeSet) Validate() []AttributeIssue {
	var issues []AttributeIssue
	seenNames := make(map[string]bool, len(s))
	for _, a := range s {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			issues = append(issues, AttributeIssue{AttributeID: a.ID, Name: a.Name, Reason: IssueEmptyName})
		}
		if len(a.Values) == 0 {
			issues = append(issues, AttributeIssue{AttributeID: a.ID, Name: a.Name, Reason: IssueNoValues})
		}
		if name != "" {
			if seenNames[name] {
				issues = append(issues, AttributeIssue{AttributeID: a.ID, Name: a.Name, Reason: IssueDuplicateName})
			}
			seenNames[name] = true
		}

		seenValues := make(map[string]bool, len(a.Values))
		for _, v := range a.Values {
			if seenValues[v.Value] {
				issues = append(issues, AttributeIssue{AttributeID: a.ID, Name: a.Name, Reason: IssueDuplicateValue + ":" + v.Value})
				continue
			}
			seenValues[v.Value] = true
		}
	}
	return issues
}
