// Package normalize turns raw snapshot rows into the canonical model.
//
// Leniency is the rule here: the source is semi-structured spreadsheet
// data, so a bad cell degrades to a zero value or nil date and never fails
// the batch. The only rows dropped outright are checklist rows with a
// blank course name, which the export produces for empty spreadsheet lines.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"delivery-dashboard/internal/domain"
	"delivery-dashboard/internal/exceldate"
	"delivery-dashboard/internal/identity"
	"delivery-dashboard/internal/snapshot"
)

// courseIDPrefix + 1-based position in the filtered list forms the stable
// synthetic course id.
const courseIDPrefix = "CURSO_"

// Policy names the row-leniency rules so they are auditable in one place
// instead of scattered through the mappers.
type Policy struct {
	// DropBlankCourseNames removes checklist rows whose name is blank
	// after trimming. The sibling tables never drop rows; a row without
	// a start date simply never reaches the calendar.
	DropBlankCourseNames bool
}

// DefaultPolicy matches what the dashboard has always done.
func DefaultPolicy() Policy {
	return Policy{DropBlankCourseNames: true}
}

// Normalizer maps raw rows into domain entities. The clock is injected
// because delivered dates and the schedule-adjusted indicator depend on
// "now".
type Normalizer struct {
	Resolver *identity.Resolver
	Policy   Policy
	Loc      *time.Location
	Now      func() time.Time
}

// New builds a Normalizer with the default policy and resolver tables.
func New(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{
		Resolver: identity.DefaultResolver(),
		Policy:   DefaultPolicy(),
		Loc:      time.Local,
		Now:      now,
	}
}

// Courses cleans the checklist table. Output order preserves input order;
// ids are assigned by position within the filtered list.
func (n *Normalizer) Courses(rows []snapshot.ChecklistRow) []domain.Course {
	now := n.Now()
	out := make([]domain.Course, 0, len(rows))

	for _, row := range rows {
		if n.Policy.DropBlankCourseNames && strings.TrimSpace(row.Curso.String()) == "" {
			continue
		}

		available := n.date(row.DisponivelACampo)
		indicator := clamp01(row.Indicador.Float(0))

		c := domain.Course{
			ID:                fmt.Sprintf("%s%d", courseIDPrefix, len(out)+1),
			Name:              row.Curso.String(),
			Level:             row.Nivel.String(),
			Kind:              domain.ParseCourseKind(row.Tipo.String()),
			Pedagogue:         n.Resolver.CanonicalPedagogue(row.Pedagogo.String()),
			Technician:        n.Resolver.PersonFromLabel(row.Filename.String()),
			AvailableDate:     available,
			Value:             row.Valor.Float(0),
			Weight:            int(row.Peso.Float(0)),
			Completion:        clamp01(row.Conclusao.Float(0)),
			RealIndicator:     indicator,
			ComputedIndicator: computedIndicator(indicator, available, now),
			CurrentStage:      row.EtapaAtual.String(),
			PilotStart:        n.date(row.PilotoInicio),
			PilotEnd:          n.date(row.PilotoFim),
			TrainingStart:     n.date(row.FormacaoInicio),
			TrainingEnd:       n.date(row.FormacaoFim),
		}

		if available != nil {
			year := available.Year()
			quarter := (int(available.Month())-1)/3 + 1
			c.AvailableYear = &year
			c.AvailableQuarter = &quarter
		}

		if c.Delivered() {
			// Processing time stands in for the delivery timestamp the
			// source does not have.
			delivered := now
			c.DeliveredDate = &delivered
		}

		out = append(out, c)
	}
	return out
}

// ExtraTrainings maps the "Outras Formações" table. No rows are dropped.
func (n *Normalizer) ExtraTrainings(rows []snapshot.FormacaoRow) []domain.ExtraTraining {
	out := make([]domain.ExtraTraining, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ExtraTraining{
			CourseName: row.Curso.String(),
			Level:      row.Nivel.String(),
			Kind:       row.Tipo.String(),
			Pedagogue:  n.Resolver.CanonicalPedagogue(row.Pedagogo.String()),
			Technician: n.Resolver.PersonFromLabel(row.Filename.String()),
			Start:      n.date(row.Inicio),
			End:        n.date(row.Fim),
		})
	}
	return out
}

// Events maps the "Eventos" table. No rows are dropped.
func (n *Normalizer) Events(rows []snapshot.EventoRow) []domain.Event {
	out := make([]domain.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Event{
			Topic:      row.Tema.String(),
			Kind:       row.Tipo.String(),
			Style:      row.Estilo.String(),
			Start:      n.date(row.Inicio),
			End:        n.date(row.Fim),
			Technician: n.Resolver.PersonFromLabel(row.Filename.String()),
		})
	}
	return out
}

// OtherActivities maps the "Outras Atividades" table and partitions it by
// roster membership of the resolved responsible person.
func (n *Normalizer) OtherActivities(rows []snapshot.AtividadeRow) domain.ActivitySplit {
	var split domain.ActivitySplit
	for _, row := range rows {
		person := n.Resolver.PersonFromLabel(row.Filename.String())
		start := n.date(row.Inicio)

		a := domain.OtherActivity{
			Kind:        row.Tipo.String(),
			Topic:       row.Tema.String(),
			Start:       start,
			End:         n.date(row.Fim),
			Responsible: person,
		}
		if start != nil {
			year := start.Year()
			a.Year = &year
		}

		if n.Resolver.IsPrincipalPedagogue(person) {
			split.Pedagogues = append(split.Pedagogues, a)
		} else {
			split.Technicians = append(split.Technicians, a)
		}
	}
	return split
}

func (n *Normalizer) date(s snapshot.Serial) *time.Time {
	if !s.Valid {
		return nil
	}
	return exceldate.FromSerial(s.Value, n.Loc)
}

// computedIndicator floors the indicator for launches still far out: six
// or more months ahead reports 0.8, four or five months 0.4, otherwise
// the raw indicator stands.
func computedIndicator(raw float64, available *time.Time, now time.Time) float64 {
	if available == nil {
		return raw
	}
	months := (available.Year()-now.Year())*12 + int(available.Month()) - int(now.Month())
	switch {
	case months >= 6:
		return 0.8
	case months >= 4:
		return 0.4
	default:
		return raw
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
