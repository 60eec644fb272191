package composer

import (
	"regexp"

	"github.com/lehigh-university-libraries/partsdesk/internal/intent"
	"github.com/lehigh-university-libraries/partsdesk/internal/models"
)

const maxSearchParts = 3

var skuMention = regexp.MustCompile(`#(PS\d+)`)

// filterParts keeps the displayed parts consistent with the reply text.
func filterParts(parts []models.Part, i intent.Intent, text string) []models.Part {
	if len(parts) == 0 {
		return []models.Part{}
	}

	switch i {
	case intent.PartLookup, intent.PurchaseIntent, intent.InstallationHelp, intent.CompatibilityCheck:
		return parts
	}

	bySKU := make(map[string]models.Part, len(parts))
	for _, p := range parts {
		bySKU[p.PartSelectNumber] = p
	}
	var mentioned []models.Part
	seen := make(map[string]bool)
	for _, m := range skuMention.FindAllStringSubmatch(text, -1) {
		sku := m[1]
		if p, ok := bySKU[sku]; ok && !seen[sku] {
			seen[sku] = true
			mentioned = append(mentioned, p)
		}
	}
	if len(mentioned) > 0 {
		return mentioned
	}

	if (i == intent.GeneralInfo || i == intent.ProductSearch) && len(parts) > maxSearchParts {
		return parts[:maxSearchParts]
	}
	return parts
}
