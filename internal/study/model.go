// Package study schedules spaced-repetition reviews for logged study sessions.
package study

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"
)

// DisciplineNotFound is shown in place of the name of a deleted discipline.
const DisciplineNotFound = "Disciplina não encontrada"

// Discipline is a subject area studies are grouped under.
type Discipline struct {
	ID        string    `db:"id" json:"id" yaml:"id"`
	Name      string    `db:"name" json:"name" yaml:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at" yaml:"created_at"`
}

// Disciplines resolves discipline ids to names.
type Disciplines []Discipline

// NameOf returns the name of the discipline, or DisciplineNotFound for a dangling id.
func (ds Disciplines) NameOf(id string) string {
	for _, d := range ds {
		if d.ID == id {
			return d.Name
		}
	}
	return DisciplineNotFound
}

// SortByName orders disciplines alphabetically in place.
func (ds Disciplines) SortByName() {
	sort.SliceStable(ds, func(i, j int) bool {
		return ds[i].Name < ds[j].Name
	})
}

// Review is a spaced-repetition checkpoint embedded in a StudyRecord.
type Review struct {
	Date      civil.Date   `json:"date" yaml:"date"`
	Days      ReviewOffset `json:"days" yaml:"days"`
	Completed bool         `json:"completed" yaml:"completed"`
}

// StudyRecord is one logged study session and its scheduled reviews.
type StudyRecord struct {
	ID           string     `json:"id" yaml:"id"`
	DisciplineID string     `json:"discipline_id" yaml:"discipline_id"`
	Subject      string     `json:"subject" yaml:"subject"`
	StudyDate    civil.Date `json:"study_date" yaml:"study_date"`
	Link         string     `json:"link,omitempty" yaml:"link,omitempty"`
	Reviews      []Review   `json:"reviews" yaml:"reviews"`
	CreatedAt    time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Offsets returns the offsets currently scheduled for the record.
func (s StudyRecord) Offsets() []ReviewOffset {
	offsets := make([]ReviewOffset, 0, len(s.Reviews))
	for _, r := range s.Reviews {
		offsets = append(offsets, r.Days)
	}
	return offsets
}

// StudyInput holds the user-editable fields of a StudyRecord.
type StudyInput struct {
	DisciplineID string         `validate:"required" label:"disciplina"`
	Subject      string         `validate:"required" label:"assunto"`
	StudyDate    civil.Date     `validate:"required" label:"data do estudo"`
	Link         string         `validate:"omitempty,url" label:"link"`
	Offsets      []ReviewOffset `validate:"dive,reviewoffset" label:"revisões"`
}

// SortByCreatedAtDesc orders studies newest first in place.
func SortByCreatedAtDesc(studies []StudyRecord) {
	sort.SliceStable(studies, func(i, j int) bool {
		return studies[i].CreatedAt.After(studies[j].CreatedAt)
	})
}

// SortByStudyDateDesc orders studies by study date, most recent first, in place.
func SortByStudyDateDesc(studies []StudyRecord) {
	sort.SliceStable(studies, func(i, j int) bool {
		return studies[i].StudyDate.After(studies[j].StudyDate)
	})
}
