// Package domain holds the canonical internal model. Every source table
// maps into these types at the ingestion boundary, and every analytical
// view is derived from them.
package domain

import (
	"strings"
	"time"
)

// CourseKind classifies a checklist row by its delivery type. The values
// are the labels the spreadsheet uses; anything unrecognized is KindOther.
type CourseKind string

const (
	KindNewCourse CourseKind = "Curso novo"
	KindUpdate    CourseKind = "Atualização"
	KindOther     CourseKind = "Outro"
)

// ParseCourseKind maps a raw cell value onto a CourseKind.
func ParseCourseKind(raw string) CourseKind {
	switch strings.TrimSpace(raw) {
	case string(KindNewCourse):
		return KindNewCourse
	case string(KindUpdate):
		return KindUpdate
	default:
		return KindOther
	}
}

// StageDelivered is the terminal stage label of the delivery pipeline.
const StageDelivered = "Entregue"

// Course is the central entity: one cleaned checklist row. A Course exists
// only if its raw name was non-blank; everything else degrades to zero
// values or nil dates rather than failing the row.
type Course struct {
	ID   string
	Name string

	Level     string
	Kind      CourseKind
	Pedagogue string
	// Technician is derived from the originating file label, not from a
	// cell, and can name a person outside the pedagogue roster.
	Technician string

	AvailableDate    *time.Time
	AvailableYear    *int
	AvailableQuarter *int // 1..4, nil together with AvailableDate

	Value      float64
	Weight     int
	Completion float64
	// RealIndicator is the raw indicator clamped to [0,1].
	RealIndicator float64
	// ComputedIndicator is the schedule-adjusted indicator: far-out
	// launches report a floor value instead of the raw one.
	ComputedIndicator float64

	CurrentStage string

	PilotStart    *time.Time
	PilotEnd      *time.Time
	TrainingStart *time.Time
	TrainingEnd   *time.Time

	// DeliveredDate approximates delivery time with processing time; the
	// source carries no real delivery timestamp. Set iff CurrentStage is
	// StageDelivered.
	DeliveredDate *time.Time
}

// Delivered reports whether the course reached the terminal stage.
func (c Course) Delivered() bool {
	return c.CurrentStage == StageDelivered
}

// ExtraTraining is an additional training session tied to a Course by
// exact trimmed name match. Its pedagogue may differ from the course's.
type ExtraTraining struct {
	CourseName string
	Level      string
	Kind       string
	Pedagogue  string
	Technician string
	Start      *time.Time
	End        *time.Time
}

// MatchesCourse reports whether the training belongs to the named course.
func (t ExtraTraining) MatchesCourse(courseName string) bool {
	return strings.TrimSpace(t.CourseName) == strings.TrimSpace(courseName)
}
