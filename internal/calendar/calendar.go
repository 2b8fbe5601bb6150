// Package calendar merges dated sub-events from courses, extra trainings
// and events into one chronological list for the dashboard calendar.
package calendar

import (
	"fmt"
	"sort"
	"time"

	"delivery-dashboard/internal/domain"
)

// Entry is one calendar item, ready for serialization. Attributes carry
// enough context for client-side drill-down without a second lookup.
type Entry struct {
	Title      string            `json:"titulo"`
	Start      string            `json:"dataInicio"`
	End        string            `json:"dataFim"`
	Color      string            `json:"cor"`
	Category   string            `json:"tipo"`
	Attributes map[string]string `json:"propriedades"`
}

// Palette assigns colors: one per named pedagogue, a gray default, and a
// fixed green for events that stays outside the pedagogue range.
type Palette struct {
	Pedagogues map[string]string
	Default    string
	Event      string
}

// DefaultPalette is the color scheme the dashboard ships with.
func DefaultPalette() Palette {
	return Palette{
		Pedagogues: map[string]string{
			"Josimeri Grein":  "#ec4899", // rosa
			"Enderson Lopes":  "#f97316", // laranja
			"Leandro Prado":   "#3b82f6", // azul
			"Regiane Hornung": "#8b5cf6", // roxo
			"Marcia Salles":   "#eab308", // amarelo
		},
		Default: "#6b7280", // cinza
		Event:   "#22c55e", // verde
	}
}

func (p Palette) forPedagogue(name string) string {
	if c, ok := p.Pedagogues[name]; ok {
		return c
	}
	return p.Default
}

// Builder assembles the merged calendar.
type Builder struct {
	Palette Palette
}

// NewBuilder returns a Builder over the default palette.
func NewBuilder() Builder {
	return Builder{Palette: DefaultPalette()}
}

// Build collects every dated sub-event and sorts the result by start date.
// The sort is stable: entries sharing a day keep insertion order, which is
// courses first, then extra trainings, then events.
func (b Builder) Build(courses []domain.Course, trainings []domain.ExtraTraining, events []domain.Event) []Entry {
	var entries []Entry

	for _, c := range courses {
		if c.PilotStart != nil {
			entries = append(entries, Entry{
				Title:      "Piloto: " + c.Name,
				Start:      day(c.PilotStart),
				End:        dayOr(c.PilotEnd, c.PilotStart),
				Color:      b.Palette.forPedagogue(c.Pedagogue),
				Category:   "Piloto",
				Attributes: courseAttributes(c),
			})
		}
		if c.TrainingStart != nil {
			entries = append(entries, Entry{
				Title:      "Formação: " + c.Name,
				Start:      day(c.TrainingStart),
				End:        dayOr(c.TrainingEnd, c.TrainingStart),
				Color:      b.Palette.forPedagogue(c.Pedagogue),
				Category:   "Formação",
				Attributes: courseAttributes(c),
			})
		}
	}

	for _, tr := range trainings {
		if tr.Start == nil {
			continue
		}
		entries = append(entries, Entry{
			Title: "Formação: " + tr.CourseName,
			Start: day(tr.Start),
			End:   dayOr(tr.End, tr.Start),
			// The training's own pedagogue, who may differ from the
			// linked course's.
			Color:    b.Palette.forPedagogue(tr.Pedagogue),
			Category: "Formação",
			Attributes: map[string]string{
				"nomeCurso":  tr.CourseName,
				"nivelCurso": tr.Level,
				"pedagogo":   tr.Pedagogue,
				"tecnico":    tr.Technician,
			},
		})
	}

	for _, ev := range events {
		if ev.Start == nil {
			continue
		}
		category := "Evento Interno"
		if ev.Style == "Externa" {
			category = "Evento Externo"
		}
		entries = append(entries, Entry{
			Title:    fmt.Sprintf("%s: %s", ev.Kind, ev.Topic),
			Start:    day(ev.Start),
			End:      dayOr(ev.End, ev.Start),
			Color:    b.Palette.Event,
			Category: category,
			Attributes: map[string]string{
				"responsavel": ev.Technician,
			},
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Start < entries[j].Start
	})
	return entries
}

func courseAttributes(c domain.Course) map[string]string {
	return map[string]string{
		"cursoId":    c.ID,
		"nomeCurso":  c.Name,
		"nivelCurso": c.Level,
		"pedagogo":   c.Pedagogue,
		"tecnico":    c.Technician,
	}
}

func day(t *time.Time) string {
	return t.Format("2006-01-02")
}

func dayOr(t, fallback *time.Time) string {
	if t != nil {
		return day(t)
	}
	return day(fallback)
}
