package specialists

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/lehigh-university-libraries/partsdesk/internal/intent"
	"github.com/lehigh-university-libraries/partsdesk/internal/models"
	"github.com/lehigh-university-libraries/partsdesk/internal/result"
)

// Problem is a frequently reported appliance fault with its usual causes
// and fixes.
type Problem struct {
	Problem   string   `json:"problem"`
	Causes    []string `json:"causes"`
	Solutions []string `json:"solutions"`
}

var generalProblems = regexp.MustCompile(`(?i)\b(common|typical|frequent|usual)\s+(problems|issues|failures)\b|\bwhat\s+(problems|issues)\b`)

var refrigeratorProblems = []Problem{
	{
		Problem:   "Refrigerator not cooling",
		Causes:    []string{"Dirty condenser coils", "Faulty evaporator fan motor", "Failed start relay", "Defective thermostat"},
		Solutions: []string{"Clean the condenser coils", "Replace the evaporator fan motor", "Replace the start relay", "Test and replace the thermostat"},
	},
	{
		Problem:   "Ice maker not making ice",
		Causes:    []string{"Clogged water filter", "Faulty water inlet valve", "Failed ice maker assembly"},
		Solutions: []string{"Replace the water filter", "Replace the water inlet valve", "Replace the ice maker assembly"},
	},
	{
		Problem:   "Refrigerator leaking water",
		Causes:    []string{"Clogged defrost drain", "Cracked water inlet valve", "Worn door gasket"},
		Solutions: []string{"Clear the defrost drain", "Replace the water inlet valve", "Replace the door seal"},
	},
	{
		Problem:   "Door won't close properly",
		Causes:    []string{"Overloaded door bins", "Worn door gasket", "Broken door hinge"},
		Solutions: []string{"Rebalance or replace door bins", "Replace the door seal", "Replace the hinge"},
	},
	{
		Problem:   "Refrigerator making noise",
		Causes:    []string{"Failing condenser fan motor", "Worn evaporator fan motor", "Ice buildup on the fan"},
		Solutions: []string{"Replace the condenser fan motor", "Replace the evaporator fan motor", "Defrost the freezer"},
	},
}

var dishwasherProblems = []Problem{
	{
		Problem:   "Dishwasher not draining",
		Causes:    []string{"Clogged filter", "Failed drain pump", "Kinked drain hose"},
		Solutions: []string{"Clean the filter", "Replace the drain pump", "Straighten or replace the drain hose"},
	},
	{
		Problem:   "Dishes not getting clean",
		Causes:    []string{"Blocked spray arm", "Faulty wash pump", "Clogged water inlet valve"},
		Solutions: []string{"Clean or replace the spray arm", "Replace the wash pump motor", "Replace the water inlet valve"},
	},
	{
		Problem:   "Dishwasher leaking",
		Causes:    []string{"Worn door gasket", "Cracked pump seal", "Loose hose connection"},
		Solutions: []string{"Replace the door seal", "Replace the pump seal", "Tighten or replace the hose"},
	},
	{
		Problem:   "Dishwasher won't start",
		Causes:    []string{"Faulty door latch", "Failed control board", "Blown thermal fuse"},
		Solutions: []string{"Replace the door latch", "Replace the control board", "Replace the thermal fuse"},
	},
	{
		Problem:   "Dishes not drying",
		Causes:    []string{"Failed heating element", "Empty rinse aid dispenser", "Faulty high-limit thermostat"},
		Solutions: []string{"Replace the heating element", "Refill the rinse aid dispenser", "Replace the thermostat"},
	},
}

// Troubleshooting maps reported symptoms to parts that fix them.
type Troubleshooting struct {
	retriever Retriever
}

func NewTroubleshooting(r Retriever) *Troubleshooting {
	return &Troubleshooting{retriever: r}
}

func (t *Troubleshooting) Name() string { return "troubleshooting" }

func (t *Troubleshooting) Handle(_ context.Context, req Request) (res result.Result[Outcome]) {
	defer recoverStage(t.Name(), &res)
	appliance := first(req.Classification.Entities.ApplianceTypes)

	if generalProblems.MatchString(req.Query) {
		return result.Success(Outcome{
			Kind:           "common_problems",
			CommonProblems: commonProblems(appliance),
			ApplianceType:  appliance,
			Message:        "Common problems and solutions",
			Confidence:     0.8,
		})
	}

	symptoms := strings.Join(intent.ExtractSymptoms(req.Query), " ")
	if symptoms == "" {
		symptoms = strings.ToLower(strings.TrimSpace(req.Query))
	}

	diagnoses := t.retriever.Troubleshoot(symptoms, appliance)
	if len(diagnoses) == 0 {
		return result.Success(Outcome{
			Kind:       "general_guidance",
			Message:    "Please describe the specific problem you're experiencing (e.g., 'not working', 'making noise', 'leaking', 'not cooling') for better troubleshooting assistance.",
			Confidence: 0.3,
			Symptoms:   symptoms,
		}, "troubleshoot_issue")
	}

	parts := make([]models.Part, len(diagnoses))
	for i, d := range diagnoses {
		parts[i] = d.Part
	}
	return result.Success(Outcome{
		Kind:          "symptom_match",
		Parts:         parts,
		Diagnoses:     diagnoses,
		Symptoms:      symptoms,
		ApplianceType: appliance,
		Message:       fmt.Sprintf("Found %d potential solutions for the reported symptoms", len(diagnoses)),
		Confidence:    diagnoses[0].Confidence,
	}, "troubleshoot_issue")
}

func commonProblems(appliance string) []Problem {
	switch appliance {
	case "refrigerator":
		return refrigeratorProblems
	case "dishwasher":
		return dishwasherProblems
	}
	all := make([]Problem, 0, len(refrigeratorProblems)+len(dishwasherProblems))
	all = append(all, refrigeratorProblems...)
	return append(all, dishwasherProblems...)
}
