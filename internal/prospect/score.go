package prospect

import (
	"math"
	"strings"
)

// Ideal-customer-profile weights. Arbitrary business heuristics; the FSM
// never looks at any of this, it only rides along in the audit payload.
var (
	targetIndustries = []string{"saas", "fintech", "tech"}
	targetTitles     = []string{"ceo", "cto", "vp", "director", "head"}
)

// Tier buckets leads by score for outreach prioritization.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
)

// Score rates a raw lead against the ICP. The breakdown keys feed the
// creation payload so the weighting stays auditable per lead.
func Score(raw RawLead) (float64, map[string]any) {
	breakdown := make(map[string]any, 4)

	industry := strings.ToLower(raw.Industry)
	industryScore := 0.05
	for _, t := range targetIndustries {
		if strings.Contains(industry, t) {
			industryScore = 0.3
			break
		}
	}
	breakdown["industry"] = industryScore

	title := strings.ToLower(raw.Title)
	titleScore := 0.05
	for _, t := range targetTitles {
		if strings.Contains(title, t) {
			titleScore = 0.3
			break
		}
	}
	breakdown["title"] = titleScore

	fields := []string{raw.Email, raw.FirstName, raw.Company, raw.Title, raw.Industry}
	filled := 0
	for _, f := range fields {
		if f != "" {
			filled++
		}
	}
	completeness := float64(filled) / float64(len(fields)) * 0.4
	breakdown["completeness"] = completeness

	total := math.Round((industryScore+titleScore+completeness)*100) / 100
	breakdown["tier"] = string(tierFor(total))

	return total, breakdown
}

func tierFor(score float64) Tier {
	switch {
	case score >= 0.65:
		return TierA
	case score >= 0.45:
		return TierB
	case score >= 0.25:
		return TierC
	default:
		return TierD
	}
}
