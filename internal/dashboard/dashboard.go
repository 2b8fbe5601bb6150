// Package dashboard sequences the whole pipeline: fetch one snapshot,
// normalize every table, apply the optional year filter, and fold the
// result into the response object the dashboard renders.
//
// Each run recomputes everything from a fresh snapshot. There is no state
// between runs and no partial success: any fatal condition surfaces as one
// ProcessingError.
package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"delivery-dashboard/internal/analytics"
	"delivery-dashboard/internal/calendar"
	"delivery-dashboard/internal/domain"
	"delivery-dashboard/internal/normalize"
	"delivery-dashboard/internal/notify"
	"delivery-dashboard/internal/snapshot"
)

// SchemaVersion tags the response contract. Bump it when field names or
// nesting change.
const SchemaVersion = 2

// ProcessingError is the single error surface of a pipeline run.
type ProcessingError struct {
	Op  string
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("dashboard: %s: %v", e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// Pipeline wires the stages together. All collaborators are injectable;
// New gives the production wiring.
type Pipeline struct {
	Fetcher    snapshot.Fetcher
	Normalizer *normalize.Normalizer
	Engine     *analytics.Engine
	Calendar   calendar.Builder
	Notifier   *notify.Generator
	Now        func() time.Time
}

// New builds a production pipeline over the given fetcher.
func New(fetcher snapshot.Fetcher) *Pipeline {
	return NewWithClock(fetcher, time.Now)
}

// NewWithClock builds a pipeline on an explicit clock; every "now"-derived
// field (delivered dates, forecast window, generation timestamp) reads it.
func NewWithClock(fetcher snapshot.Fetcher, now func() time.Time) *Pipeline {
	return &Pipeline{
		Fetcher:    fetcher,
		Normalizer: normalize.New(now),
		Engine:     analytics.NewEngine(),
		Calendar:   calendar.NewBuilder(),
		Notifier:   notify.NewGenerator(now),
		Now:        now,
	}
}

// Run executes one full pipeline pass. year filters every derived
// collection to that calendar year; nil means "Total" plus per-year
// breakdowns.
func (p *Pipeline) Run(ctx context.Context, year *int) (*Report, error) {
	snap, err := p.Fetcher.Fetch(ctx)
	if err != nil {
		return nil, &ProcessingError{Op: "fetch snapshot", Err: err}
	}

	courses := p.Normalizer.Courses(snap.Checklist)
	trainings := p.Normalizer.ExtraTrainings(snap.OutrasFormacoes)
	events := p.Normalizer.Events(snap.Eventos)
	activities := p.Normalizer.OtherActivities(snap.OutrasAtividades)

	yearLabel := "Geral"
	if year != nil {
		yearLabel = strconv.Itoa(*year)
		courses = analytics.FilterYear(courses, *year)
		trainings = filterTrainings(trainings, *year)
		events = filterEvents(events, *year)
		activities.Pedagogues = filterActivities(activities.Pedagogues, *year)
		activities.Technicians = filterActivities(activities.Technicians, *year)
	}

	var analyses map[string]analytics.Analysis
	if year != nil {
		analyses = map[string]analytics.Analysis{yearLabel: p.Engine.Analyze(courses)}
	} else {
		analyses = p.Engine.AnalyzeByYear(courses)
	}

	now := p.Now()
	return &Report{
		Schema:        SchemaVersion,
		GeneratedAt:   now.Format(time.RFC3339),
		YearFilter:    yearLabel,
		Analyses:      analyses,
		Upcoming:      analytics.UpcomingLaunches(courses, now),
		Courses:       courseViews(courses, trainings),
		Calendar:      p.Calendar.Build(courses, trainings, events),
		Activities:    activityViews(activities),
		Notifications: p.Notifier.Generate(courses),
	}, nil
}

func filterTrainings(trainings []domain.ExtraTraining, year int) []domain.ExtraTraining {
	out := make([]domain.ExtraTraining, 0, len(trainings))
	for _, t := range trainings {
		if t.Start != nil && t.Start.Year() == year {
			out = append(out, t)
		}
	}
	return out
}

func filterEvents(events []domain.Event, year int) []domain.Event {
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if e.Start != nil && e.Start.Year() == year {
			out = append(out, e)
		}
	}
	return out
}

func filterActivities(activities []domain.OtherActivity, year int) []domain.OtherActivity {
	out := make([]domain.OtherActivity, 0, len(activities))
	for _, a := range activities {
		if a.Year != nil && *a.Year == year {
			out = append(out, a)
		}
	}
	return out
}
