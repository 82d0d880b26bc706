// Package statistics summarizes studies and reviews for the dashboard.
package statistics

import (
	"fmt"
	"sort"

	"cloud.google.com/go/civil"

	"github.com/at-ishikawa/studyplanner/internal/study"
)

// RecentStudiesLimit is the number of studies listed on the dashboard.
const RecentStudiesLimit = 5

// Totals holds the counters shown at the top of the dashboard
type Totals struct {
	Disciplines      int `json:"disciplines"`
	Studies          int `json:"studies"`
	PendingReviews   int `json:"pending_reviews"`
	CompletedReviews int `json:"completed_reviews"`
	StudiesToday     int `json:"studies_today"`
	ReviewsToday     int `json:"reviews_today"` // completed or not
}

// PeriodStatistics holds counts for one month
type PeriodStatistics struct {
	Period           string `json:"period"` // "2024-01"
	StudiesLogged    int    `json:"studies_logged"`
	Disciplines      int    `json:"disciplines"` // distinct disciplines studied
	ReviewsScheduled int    `json:"reviews_scheduled"`
	ReviewsCompleted int    `json:"reviews_completed"`
}

// Dashboard is the full summary
type Dashboard struct {
	Totals        Totals              `json:"totals"`
	RecentStudies []study.StudyRecord `json:"recent_studies"`
	Periods       []PeriodStatistics  `json:"periods"`
}

// periodData tracks counts per period
type periodData struct {
	studies          int
	disciplines      map[string]struct{}
	reviewsScheduled int
	reviewsCompleted int
}

// Calculate builds the dashboard as of today.
// It accepts optional year and month filters (0 means no filter) which only narrow the periods;
// totals and recent studies always cover everything.
// Studies are counted in the month of their study date, reviews in the month of their review date.
func Calculate(disciplines study.Disciplines, studies []study.StudyRecord, today civil.Date, year, month int) Dashboard {
	totals := Totals{
		Disciplines: len(disciplines),
		Studies:     len(studies),
	}
	stats := make(map[string]*periodData)

	for _, s := range studies {
		if s.StudyDate == today {
			totals.StudiesToday++
		}
		if matchesFilter(s.StudyDate, year, month) {
			data := ensurePeriodExists(stats, s.StudyDate)
			data.studies++
			data.disciplines[s.DisciplineID] = struct{}{}
		}

		for _, r := range s.Reviews {
			if r.Completed {
				totals.CompletedReviews++
			} else {
				totals.PendingReviews++
			}
			if r.Date == today {
				totals.ReviewsToday++
			}

			if !matchesFilter(r.Date, year, month) {
				continue
			}
			data := ensurePeriodExists(stats, r.Date)
			data.reviewsScheduled++
			if r.Completed {
				data.reviewsCompleted++
			}
		}
	}

	return Dashboard{
		Totals:        totals,
		RecentStudies: recentStudies(studies),
		Periods:       buildPeriods(stats),
	}
}

func recentStudies(studies []study.StudyRecord) []study.StudyRecord {
	recent := make([]study.StudyRecord, len(studies))
	copy(recent, studies)
	study.SortByCreatedAtDesc(recent)
	if len(recent) > RecentStudiesLimit {
		recent = recent[:RecentStudiesLimit]
	}
	return recent
}

func period(d civil.Date) string {
	return fmt.Sprintf("%d-%02d", d.Year, int(d.Month))
}

func ensurePeriodExists(stats map[string]*periodData, d civil.Date) *periodData {
	key := period(d)
	if stats[key] == nil {
		stats[key] = &periodData{disciplines: make(map[string]struct{})}
	}
	return stats[key]
}

func matchesFilter(d civil.Date, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if d.Year != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return int(d.Month) == filterMonth
}

func buildPeriods(stats map[string]*periodData) []PeriodStatistics {
	periods := make([]PeriodStatistics, 0, len(stats))
	for key, data := range stats {
		periods = append(periods, PeriodStatistics{
			Period:           key,
			StudiesLogged:    data.studies,
			Disciplines:      len(data.disciplines),
			ReviewsScheduled: data.reviewsScheduled,
			ReviewsCompleted: data.reviewsCompleted,
		})
	}

	// Newest first
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})
	return periods
}
