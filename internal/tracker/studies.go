package tracker

import (
	"context"
	"fmt"

	"github.com/at-ishikawa/studyplanner/internal/study"
)

func (s *Service) CreateDiscipline(ctx context.Context, userID, name string) (study.Discipline, error) {
	name, err := s.validator.ValidateDisciplineName(name)
	if err != nil {
		return study.Discipline{}, err
	}

	discipline := study.Discipline{Name: name, CreatedAt: s.now()}
	if err := s.disciplines.Create(ctx, userID, &discipline); err != nil {
		return study.Discipline{}, fmt.Errorf("disciplines.Create() > %w", err)
	}
	return discipline, nil
}

// ListDisciplines returns the disciplines ordered by name.
func (s *Service) ListDisciplines(ctx context.Context, userID string) (study.Disciplines, error) {
	disciplines, err := s.disciplines.FindAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("disciplines.FindAll() > %w", err)
	}
	study.Disciplines(disciplines).SortByName()
	return disciplines, nil
}

// DeleteDiscipline removes a discipline. Its studies are kept and show
// study.DisciplineNotFound as their discipline name afterwards.
func (s *Service) DeleteDiscipline(ctx context.Context, userID, id string) error {
	if err := s.disciplines.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("disciplines.Delete() > %w", err)
	}
	return nil
}

// StudiesByDiscipline returns the studies of a discipline, most recent study date first.
func (s *Service) StudiesByDiscipline(ctx context.Context, userID, disciplineID string) ([]study.StudyRecord, error) {
	studies, err := s.studies.FindAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("studies.FindAll() > %w", err)
	}

	matched := make([]study.StudyRecord, 0)
	for _, record := range studies {
		if record.DisciplineID == disciplineID {
			matched = append(matched, record)
		}
	}
	study.SortByStudyDateDesc(matched)
	return matched, nil
}

// SearchStudies returns the studies matching text, newest first, together with the
// disciplines needed to name them.
func (s *Service) SearchStudies(ctx context.Context, userID, text string) ([]study.StudyRecord, study.Disciplines, error) {
	disciplines, studies, err := s.loadStudies(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	matched := study.FilterStudies(studies, disciplines, text)
	study.SortByCreatedAtDesc(matched)
	return matched, disciplines, nil
}

// CreateStudy logs a study session and schedules its reviews.
func (s *Service) CreateStudy(ctx context.Context, userID string, in study.StudyInput) (study.StudyRecord, error) {
	in, err := s.validator.ValidateStudy(in)
	if err != nil {
		return study.StudyRecord{}, err
	}

	record := study.StudyRecord{
		DisciplineID: in.DisciplineID,
		Subject:      in.Subject,
		StudyDate:    in.StudyDate,
		Link:         in.Link,
		Reviews:      study.ScheduleReviews(in.StudyDate, in.Offsets),
		CreatedAt:    s.now(),
	}
	if err := s.studies.Create(ctx, userID, &record); err != nil {
		return study.StudyRecord{}, fmt.Errorf("studies.Create() > %w", err)
	}
	return record, nil
}

// UpdateStudy edits a study and regenerates its reviews. Completed reviews whose
// offset and date are unchanged stay completed.
func (s *Service) UpdateStudy(ctx context.Context, userID, id string, in study.StudyInput) (study.StudyRecord, error) {
	in, err := s.validator.ValidateStudy(in)
	if err != nil {
		return study.StudyRecord{}, err
	}

	previous, err := s.studies.FindByID(ctx, userID, id)
	if err != nil {
		return study.StudyRecord{}, fmt.Errorf("studies.FindByID() > %w", err)
	}

	updated := *previous
	updated.DisciplineID = in.DisciplineID
	updated.Subject = in.Subject
	updated.StudyDate = in.StudyDate
	updated.Link = in.Link
	updated.Reviews = study.RescheduleReviews(*previous, in.StudyDate, in.Offsets)
	now := s.now()
	updated.UpdatedAt = &now
	if err := s.studies.Update(ctx, userID, &updated); err != nil {
		return study.StudyRecord{}, fmt.Errorf("studies.Update() > %w", err)
	}
	return updated, nil
}

func (s *Service) DeleteStudy(ctx context.Context, userID, id string) error {
	if err := s.studies.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("studies.Delete() > %w", err)
	}
	return nil
}

// ToggleReview flips the completion of one review and stores the new review list.
func (s *Service) ToggleReview(ctx context.Context, userID, id string, index int) (study.StudyRecord, error) {
	record, err := s.studies.FindByID(ctx, userID, id)
	if err != nil {
		return study.StudyRecord{}, fmt.Errorf("studies.FindByID() > %w", err)
	}

	toggled, err := study.ToggleReviewCompletion(*record, index)
	if err != nil {
		return study.StudyRecord{}, err
	}
	if err := s.studies.UpdateReviews(ctx, userID, id, toggled.Reviews); err != nil {
		return study.StudyRecord{}, fmt.Errorf("studies.UpdateReviews() > %w", err)
	}
	return toggled, nil
}
