// Package analytics folds the normalized course set into the dashboard's
// aggregate views. Every view is computed over one filtered set with the
// same default rules, so the numbers on different charts always agree.
package analytics

import (
	"math"
	"sort"
	"strconv"
	"time"

	"delivery-dashboard/internal/domain"
)

// TotalKey keys the unfiltered aggregate in a multi-year roll-up.
const TotalKey = "Total"

// undefinedLevel buckets courses whose level cell was blank.
const undefinedLevel = "Não definido"

// otherStage buckets stage labels outside the canonical pipeline.
const otherStage = "Outra"

// upcomingLimit caps the launch list shown on the dashboard.
const upcomingLimit = 10

// DeliveryTotals splits the course count by kind and delivery state.
type DeliveryTotals struct {
	TotalNovos            int `json:"totalNovos"`
	TotalAtualizacoes     int `json:"totalAtualizacoes"`
	NovosEntregues        int `json:"novosEntregues"`
	AtualizacoesEntregues int `json:"atualizacoesEntregues"`
}

// Analysis is the full aggregate view over one filtered course set.
type Analysis struct {
	MetaEntregas           int            `json:"metaEntregas"`
	TotalEntregas          DeliveryTotals `json:"totalEntregas"`
	CursosPorEtapa         map[string]int `json:"cursosPorEtapa"`
	PlanejamentoTrimestral map[string]int `json:"planejamentoTrimestral"`
	CursosPorNivel         map[string]int `json:"cursosPorNivel"`
	IndicadorMedio         int            `json:"indicadorMedio"`
}

// Launch is one row of the upcoming-launches list.
type Launch struct {
	Nome           string  `json:"nome"`
	Nivel          string  `json:"nivel"`
	DataLancamento string  `json:"dataLancamento"`
	Tecnico        string  `json:"tecnico"`
	Pedagogo       string  `json:"pedagogo"`
	EtapaAtual     string  `json:"etapaAtual"`
	Percentual     float64 `json:"percentual"`
}

// Engine computes aggregates with an injected stage table so tests can run
// against alternate pipelines.
type Engine struct {
	stages map[string]string
}

// NewEngine builds an engine over the production stage table.
func NewEngine() *Engine {
	return &Engine{stages: DefaultStageMap()}
}

// NewEngineWithStages builds an engine over an explicit stage table.
func NewEngineWithStages(stages map[string]string) *Engine {
	m := make(map[string]string, len(stages))
	for k, v := range stages {
		m[k] = v
	}
	return &Engine{stages: m}
}

// DefaultStageMap maps the spreadsheet's free-text stage labels onto the
// seven canonical pipeline buckets.
func DefaultStageMap() map[string]string {
	return map[string]string{
		"Prospecção e Contratação de Especialistas": "Etapa 1",
		"Edital de Credenciamento":                  "Etapa 2",
		"Curso Piloto":                              "Etapa 3",
		"Formação de Instrutores":                   "Etapa 4",
		"Entrega Técnica":                           "Etapa 5",
		"Lançamento a Campo":                        "Etapa 6",
		domain.StageDelivered:                       domain.StageDelivered,
	}
}

// FilterYear keeps only courses available in the given calendar year.
func FilterYear(courses []domain.Course, year int) []domain.Course {
	out := make([]domain.Course, 0, len(courses))
	for _, c := range courses {
		if c.AvailableYear != nil && *c.AvailableYear == year {
			out = append(out, c)
		}
	}
	return out
}

// Analyze computes the aggregate view over one course set.
func (e *Engine) Analyze(courses []domain.Course) Analysis {
	a := Analysis{
		MetaEntregas:           len(courses),
		CursosPorEtapa:         map[string]int{},
		PlanejamentoTrimestral: map[string]int{},
		CursosPorNivel:         map[string]int{},
	}

	var indicatorSum float64
	for _, c := range courses {
		switch c.Kind {
		case domain.KindNewCourse:
			a.TotalEntregas.TotalNovos++
			if c.Delivered() {
				a.TotalEntregas.NovosEntregues++
			}
		case domain.KindUpdate:
			a.TotalEntregas.TotalAtualizacoes++
			if c.Delivered() {
				a.TotalEntregas.AtualizacoesEntregues++
			}
		}

		stage := e.stages[c.CurrentStage]
		if stage == "" {
			stage = otherStage
		}
		a.CursosPorEtapa[stage]++

		if c.AvailableQuarter != nil {
			a.PlanejamentoTrimestral["T"+strconv.Itoa(*c.AvailableQuarter)]++
		}

		level := c.Level
		if level == "" {
			level = undefinedLevel
		}
		a.CursosPorNivel[level]++

		indicatorSum += c.RealIndicator
	}

	if len(courses) > 0 {
		a.IndicadorMedio = int(math.Round(indicatorSum / float64(len(courses)) * 100))
	}
	return a
}

// AnalyzeByYear computes the multi-year roll-up: one analysis per distinct
// available year plus the unfiltered Total.
func (e *Engine) AnalyzeByYear(courses []domain.Course) map[string]Analysis {
	out := map[string]Analysis{
		TotalKey: e.Analyze(courses),
	}
	for _, year := range distinctYears(courses) {
		out[strconv.Itoa(year)] = e.Analyze(FilterYear(courses, year))
	}
	return out
}

// UpcomingLaunches lists non-delivered courses with a present-or-future
// availability date, soonest first, capped for display.
func UpcomingLaunches(courses []domain.Course, now time.Time) []Launch {
	candidates := make([]domain.Course, 0, len(courses))
	for _, c := range courses {
		if c.AvailableDate == nil || c.Delivered() {
			continue
		}
		if c.AvailableDate.Before(now) && !sameDay(*c.AvailableDate, now) {
			continue
		}
		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].AvailableDate.Before(*candidates[j].AvailableDate)
	})
	if len(candidates) > upcomingLimit {
		candidates = candidates[:upcomingLimit]
	}

	out := make([]Launch, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Launch{
			Nome:           c.Name,
			Nivel:          c.Level,
			DataLancamento: c.AvailableDate.Format("2006-01-02"),
			Tecnico:        c.Technician,
			Pedagogo:       c.Pedagogue,
			EtapaAtual:     c.CurrentStage,
			Percentual:     c.Completion * 100,
		})
	}
	return out
}

func distinctYears(courses []domain.Course) []int {
	seen := map[int]bool{}
	for _, c := range courses {
		if c.AvailableYear != nil {
			seen[*c.AvailableYear] = true
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
