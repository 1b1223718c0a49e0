package dataprocessing

import (
	"latetrack/pkg/contracts/domain"
)

// IndexBySID transposes the project-indexed aggregate into the
// student-indexed one. Each student present in the result carries every
// tier of tierOrder plus any other tier found in byProject, possibly empty.
func IndexBySID(byProject domain.ByProject, tierOrder []string) domain.BySID {
	tiers := append([]string(nil), tierOrder...)
	known := make(map[string]bool, len(tiers))
	for _, t := range tiers {
		known[t] = true
	}
	for _, project := range byProject {
		for tier := range project {
			if !known[tier] {
				known[tier] = true
				tiers = append(tiers, tier)
			}
		}
	}

	result := make(domain.BySID)
	for project, buckets := range byProject {
		for tier, entries := range buckets {
			for id, score := range entries {
				student, ok := result[id]
				if !ok {
					student = make(map[string]map[string]domain.Score, len(tiers))
					for _, t := range tiers {
						student[t] = make(map[string]domain.Score)
					}
					result[id] = student
				}
				student[tier][project] = score
			}
		}
	}
	return result
}
