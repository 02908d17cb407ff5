package risk

import (
	"fmt"
	"sort"

	"github.com/halvard/lore/pkg/models"
)

const (
	// busFactorMinSubjects is how many plurality-owned subjects make a
	// contributor a bus-factor risk.
	busFactorMinSubjects = 5
	// busFactorHighSubjects upgrades the finding to high.
	busFactorHighSubjects = 10
)

// assessBusFactor counts, per contributor, how many subjects they are the
// plurality owner of. Only file subjects count: technology tags aggregate
// the same commits under a coarser key, so including them would weight
// every file a second time. Ties on a subject resolve to the first name
// in the subject's ranked contributor list.
func (e *Engine) assessBusFactor(files models.OwnershipRecord) []models.RiskFinding {
	owned := make(map[string]int)
	for _, subject := range files.Subjects() {
		ranked := files[subject].Ranked()
		if len(ranked) == 0 {
			continue
		}
		owned[ranked[0]]++
	}

	names := make([]string, 0, len(owned))
	for name := range owned {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if owned[names[i]] == owned[names[j]] {
			return names[i] < names[j]
		}
		return owned[names[i]] > owned[names[j]]
	})

	var findings []models.RiskFinding
	for _, name := range names {
		n := owned[name]
		if n < e.busFactorMin {
			continue
		}
		level := models.RiskMedium
		if n >= e.busFactorHigh {
			level = models.RiskHigh
		}
		findings = append(findings, models.RiskFinding{
			Kind:        models.FindingBusFactor,
			Contributor: name,
			Commits:     n,
			Level:       level,
			Rationale:   fmt.Sprintf("%s is the primary owner of %d files", name, n),
			Mitigation:  fmt.Sprintf("rotate ownership of files currently led by %s", name),
		})
	}
	return findings
}
