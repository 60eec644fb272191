package composer

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/partsdesk/internal/models"
)

const (
	contextParts    = 2
	contextProblems = 5
	historyTurns    = 4
	modelListChars  = 100
)

const systemPrompt = `You are a helpful PartSelect customer service agent specializing in refrigerator and dishwasher parts.

CRITICAL GUIDELINES:
- ONLY use information provided in the Context section
- NEVER make up or guess part information if not found in context
- If no parts found in context, clearly state "I couldn't find that part number in our system"
- Be concise and helpful
- Focus only on refrigerator and dishwasher parts
- Include specific part numbers (formatted as #PS12345678) and details when available from context
- Provide clear installation and compatibility guidance only when data is available

IMPORTANT: If context shows no parts or empty results, do NOT invent part details. Instead, apologize and ask the customer to verify the part number or provide model information.`

func userPrompt(in Input) string {
	var b strings.Builder
	if h := recentHistory(in.History); h != "" {
		fmt.Fprintf(&b, "Recent conversation:\n%s\n\n", h)
	}
	fmt.Fprintf(&b, "User Query: %s\nIntent: %s\nContext: %s\n\nPlease provide a helpful response about the parts query.",
		in.Query, in.Intent, buildContext(in))
	return b.String()
}

func recentHistory(history []models.Message) string {
	if len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}
	lines := make([]string, 0, len(history))
	for _, m := range history {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	return strings.Join(lines, "\n")
}

// buildContext summarizes the outcome for the generator. Only facts in this
// summary may appear in the reply.
func buildContext(in Input) string {
	o := in.Outcome
	lines := []string{"User intent: " + in.Intent.String()}

	if len(o.Parts) > 0 {
		lines = append(lines, fmt.Sprintf("Found %d relevant parts:", len(o.Parts)))
		for i, p := range o.Parts[:min(len(o.Parts), contextParts)] {
			lines = append(lines, partLines(i+1, p)...)
		}
	} else {
		lines = append(lines, "Found 0 relevant parts.")
	}

	for _, c := range o.Compatibility {
		lines = append(lines, fmt.Sprintf("Compatibility: %s with %s = %t (%s)", c.PartNumber, c.ModelNumber, c.Compatible, c.Reason))
	}
	for _, g := range o.Guides {
		lines = append(lines, fmt.Sprintf("Installation: %s difficulty, %s. %s", g.Difficulty, g.TimeRequired, g.Instructions))
	}
	for _, d := range o.Diagnoses {
		lines = append(lines, fmt.Sprintf("Possible fix: %s (#%s) addresses %s", d.Part.Name, d.Part.PartSelectNumber, strings.Join(d.SymptomsAddressed, ", ")))
	}

	if o.Kind != "" {
		lines = append(lines, "Result type: "+o.Kind)
	}
	if o.CartAction != "" {
		lines = append(lines, "Cart action: "+o.CartAction)
	}
	if o.Message != "" {
		lines = append(lines, "Specialist note: "+o.Message)
	}
	if o.Cart != nil {
		lines = append(lines, fmt.Sprintf("Cart: %d items, total $%.2f", o.Cart.TotalItems, o.Cart.Total))
	}

	if len(o.CommonProblems) > 0 {
		lines = append(lines, fmt.Sprintf("Common %s problems and solutions:", orAppliance(o.ApplianceType)))
		for i, p := range o.CommonProblems[:min(len(o.CommonProblems), contextProblems)] {
			lines = append(lines,
				fmt.Sprintf("%d. %s", i+1, p.Problem),
				"   Causes: "+strings.Join(p.Causes, "; "),
				"   Solutions: "+strings.Join(p.Solutions, "; "))
		}
	}
	return strings.Join(lines, "\n")
}

func partLines(n int, p models.Part) []string {
	description := p.Description
	if description == "" {
		description = "No description available"
	}
	difficulty := p.Installation.Difficulty
	if difficulty == "" {
		difficulty = "Unknown"
	}
	tools := "No"
	if p.Installation.ToolsRequired {
		tools = "Yes"
	}
	stock := "No"
	if p.InStock {
		stock = "Yes"
	}
	compat := strings.Join(p.Compatibility.CompatibleModels, ", ")
	if len(compat) > modelListChars {
		compat = compat[:modelListChars] + "..."
	}
	return []string{
		fmt.Sprintf("Part %d: %s (#%s) - $%.2f", n, p.Name, p.PartSelectNumber, p.Price),
		"  Brand: " + p.Brand,
		"  Description: " + description,
		"  Installation Difficulty: " + difficulty,
		"  Tools Required: " + tools,
		"  Model Compatibility: " + compat,
		"  In Stock: " + stock,
	}
}

func orAppliance(applianceType string) string {
	if applianceType == "" {
		return "appliance"
	}
	return applianceType
}
