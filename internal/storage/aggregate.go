package storage

import "github.com/PlayerLynx/AI-Study-Buddy/internal"

type subjectRow struct {
	Subject      string `db:"subject"`
	TotalMinutes int    `db:"total_minutes"`
}

// buildStatistics derives the window total from the per-subject rows so the
// breakdown always sums to it exactly.
func buildStatistics(rows []subjectRow) internal.StudyStatistics {
	stats := internal.StudyStatistics{SubjectBreakdown: make([]internal.SubjectMinutes, 0, len(rows))}
	for _, r := range rows {
		stats.TotalMinutes += r.TotalMinutes
		stats.SubjectBreakdown = append(stats.SubjectBreakdown, internal.SubjectMinutes{
			Subject:      r.Subject,
			TotalMinutes: r.TotalMinutes,
		})
	}
	return stats
}
