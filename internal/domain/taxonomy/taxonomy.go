// Package taxonomy holds the static report-category catalog. Severity is
// copied from here onto each report at submission time, so edits to the
// catalog never change the severity of historical reports.
package taxonomy

import (
	"strings"

	"github.com/ivankudzin/heartbeat/backend/internal/domain/enums"
)

type Category struct {
	ID          string
	Label       string
	Description string
	Severity    enums.Severity
}

var categories = []Category{
	{
		ID:          "harassment",
		Label:       "Harassment",
		Description: "Insults, stalking or unwanted contact after being told to stop.",
		Severity:    enums.SeverityHigh,
	},
	{
		ID:          "threats_violence",
		Label:       "Threats or violence",
		Description: "Threats of physical harm or incitement of violence.",
		Severity:    enums.SeverityCritical,
	},
	{
		ID:          "underage",
		Label:       "Underage user",
		Description: "Profile appears to belong to a person under 18.",
		Severity:    enums.SeverityCritical,
	},
	{
		ID:          "fake_profile",
		Label:       "Fake profile",
		Description: "Photos or details do not belong to the person behind the profile.",
		Severity:    enums.SeverityMedium,
	},
	{
		ID:          "inappropriate_content",
		Label:       "Inappropriate content",
		Description: "Nudity, shock content or otherwise prohibited media.",
		Severity:    enums.SeverityMedium,
	},
	{
		ID:          "scam",
		Label:       "Scam or fraud",
		Description: "Requests for money, crypto schemes or off-platform payment links.",
		Severity:    enums.SeverityHigh,
	},
	{
		ID:          "spam",
		Label:       "Spam",
		Description: "Advertising, external links or repeated copy-paste messages.",
		Severity:    enums.SeverityLow,
	},
	{
		ID:          "other",
		Label:       "Other",
		Description: "Anything that does not fit the categories above.",
		Severity:    enums.SeverityLow,
	},
}

// Categories returns a copy so callers cannot mutate the catalog.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func Lookup(id string) (Category, bool) {
	normalized := strings.ToLower(strings.TrimSpace(id))
	for _, category := range categories {
		if category.ID == normalized {
			return category, true
		}
	}
	return Category{}, false
}

func IsValidCategory(id string) bool {
	_, ok := Lookup(id)
	return ok
}
