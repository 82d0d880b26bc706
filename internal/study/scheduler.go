package study

import (
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
)

// ScheduleReviews returns one incomplete review per distinct offset, dated offset
// calendar days after studyDate and ordered by ascending offset.
func ScheduleReviews(studyDate civil.Date, offsets []ReviewOffset) []Review {
	unique := make([]ReviewOffset, 0, len(offsets))
	seen := make(map[ReviewOffset]struct{}, len(offsets))
	for _, o := range offsets {
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		unique = append(unique, o)
	}
	sort.Slice(unique, func(i, j int) bool {
		return unique[i] < unique[j]
	})

	reviews := make([]Review, 0, len(unique))
	for _, o := range unique {
		reviews = append(reviews, Review{
			Date:      studyDate.AddDays(o.Days()),
			Days:      o,
			Completed: false,
		})
	}
	return reviews
}

// RescheduleReviews regenerates the reviews of an edited study.
// A completed review survives the edit when its offset is still selected and its
// date did not move; every other review starts incomplete.
func RescheduleReviews(previous StudyRecord, studyDate civil.Date, offsets []ReviewOffset) []Review {
	completed := make(map[ReviewOffset]civil.Date, len(previous.Reviews))
	for _, r := range previous.Reviews {
		if r.Completed {
			completed[r.Days] = r.Date
		}
	}

	reviews := ScheduleReviews(studyDate, offsets)
	for i := range reviews {
		if date, ok := completed[reviews[i].Days]; ok && date == reviews[i].Date {
			reviews[i].Completed = true
		}
	}
	return reviews
}

// ToggleReviewCompletion returns a copy of record with the completion flag of the
// review at index flipped. The given record is left untouched.
func ToggleReviewCompletion(record StudyRecord, index int) (StudyRecord, error) {
	if index < 0 || index >= len(record.Reviews) {
		return record, fmt.Errorf("%w: %d (study %s has %d reviews)", ErrReviewIndexOutOfRange, index, record.ID, len(record.Reviews))
	}

	reviews := make([]Review, len(record.Reviews))
	copy(reviews, record.Reviews)
	reviews[index].Completed = !reviews[index].Completed

	updated := record
	updated.Reviews = reviews
	return updated, nil
}
