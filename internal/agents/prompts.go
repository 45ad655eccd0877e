package agents

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ideaBlock renders the shared prompt preamble describing the opportunity.
func ideaBlock(input AgentInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Business idea: %s\n", input.Title)
	fmt.Fprintf(&b, "Category: %s\n", input.Category)
	fmt.Fprintf(&b, "Description: %s\n", input.IdeaText)

	if tm := input.TargetMarket; tm != nil {
		if tm.Region != "" {
			fmt.Fprintf(&b, "Target region: %s\n", tm.Region)
		}
		if len(tm.SegmentHints) > 0 {
			fmt.Fprintf(&b, "Target segments: %s\n", strings.Join(tm.SegmentHints, ", "))
		}
		if tm.EstimatedUsers > 0 {
			fmt.Fprintf(&b, "Estimated addressable users: %d\n", tm.EstimatedUsers)
		}
	}
	return b.String()
}

// teamBlock renders the team profile hint, when present.
func teamBlock(input AgentInput) string {
	tp := input.TeamProfile
	if tp == nil {
		return "No team profile was provided.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Founders: %d\n", tp.FounderCount)
	fmt.Fprintf(&b, "Years of relevant experience: %d\n", tp.YearsExperience)
	if tp.FullTime {
		b.WriteString("Commitment: full-time\n")
	} else {
		b.WriteString("Commitment: not full-time\n")
	}
	if len(tp.Skills) > 0 {
		fmt.Fprintf(&b, "Skills present: %s\n", strings.Join(tp.Skills, ", "))
	}
	if len(tp.MissingSkills) > 0 {
		fmt.Fprintf(&b, "Skills known to be missing: %s\n", strings.Join(tp.MissingSkills, ", "))
	}
	return b.String()
}

// enrichmentBlock renders fetched reference data for prompt grounding.
func enrichmentBlock(data map[string]interface{}) string {
	if len(data) == 0 {
		return ""
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return "Reference data:\n" + string(raw) + "\n"
}

// schemaInstruction tells the model the exact shape to produce.
func schemaInstruction(schema string) string {
	return "Respond with a single JSON object conforming exactly to this JSON Schema:\n" + schema + "\n"
}
