package dashboard

import (
	"sort"
	"time"

	"delivery-dashboard/internal/analytics"
	"delivery-dashboard/internal/calendar"
	"delivery-dashboard/internal/domain"
	"delivery-dashboard/internal/notify"
)

// Report is the canonical response object, schema version SchemaVersion.
type Report struct {
	Schema        int                           `json:"schema"`
	GeneratedAt   string                        `json:"gerado_em"`
	YearFilter    string                        `json:"anoFiltrado"`
	Analyses      map[string]analytics.Analysis `json:"analises"`
	Upcoming      []analytics.Launch            `json:"proximosLancamentos"`
	Courses       []CourseView                  `json:"cursos"`
	Calendar      []calendar.Entry              `json:"calendarioEventos"`
	Activities    ActivitySplitView             `json:"atividadesExtras"`
	Notifications []notify.Notification         `json:"notificacoes"`
}

// CourseView is one course in the response list, with its associated
// sub-events attached so the client needs no second lookup.
type CourseView struct {
	ID                 string            `json:"id"`
	Nome               string            `json:"nome"`
	Nivel              string            `json:"nivel"`
	Tipo               domain.CourseKind `json:"tipo"`
	AnoDisponivel      *int              `json:"anoDisponivel"`
	DataDisponivel     *string           `json:"dataDisponivel"`
	EtapaAtual         string            `json:"etapaAtual"`
	Conclusao          float64           `json:"conclusao"`
	IndicadorReal      float64           `json:"indicadorReal"`
	IndicadorCalculado float64           `json:"indicadorCalculado"`
	Valor              float64           `json:"valor"`
	Peso               int               `json:"peso"`
	DataEntrega        *string           `json:"dataEntrega"`
	Equipe             TeamView          `json:"equipe"`
	EventosAssociados  []SubEventView    `json:"eventosAssociados"`
}

type TeamView struct {
	Pedagogo string `json:"pedagogo"`
	Tecnico  string `json:"tecnico"`
}

// SubEventView is one dated sub-event of a course: its own pilot or
// training window, or an exact-name-matched extra training.
type SubEventView struct {
	Tipo     string `json:"tipo"`
	Inicio   string `json:"inicio"`
	Fim      string `json:"fim"`
	Pedagogo string `json:"pedagogo"`
}

// ActivitySplitView mirrors domain.ActivitySplit with serialized dates.
type ActivitySplitView struct {
	Pedagogos []ActivityView `json:"pedagogos"`
	Tecnicos  []ActivityView `json:"tecnicos"`
}

type ActivityView struct {
	Tipo        string  `json:"tipo"`
	Tema        string  `json:"tema"`
	Inicio      *string `json:"inicio"`
	Fim         *string `json:"fim"`
	Responsavel string  `json:"responsavel"`
	Ano         *int    `json:"ano"`
}

func courseViews(courses []domain.Course, trainings []domain.ExtraTraining) []CourseView {
	out := make([]CourseView, 0, len(courses))
	for _, c := range courses {
		out = append(out, CourseView{
			ID:                 c.ID,
			Nome:               c.Name,
			Nivel:              c.Level,
			Tipo:               c.Kind,
			AnoDisponivel:      c.AvailableYear,
			DataDisponivel:     dayPtr(c.AvailableDate),
			EtapaAtual:         c.CurrentStage,
			Conclusao:          c.Completion,
			IndicadorReal:      c.RealIndicator,
			IndicadorCalculado: c.ComputedIndicator,
			Valor:              c.Value,
			Peso:               c.Weight,
			DataEntrega:        dayPtr(c.DeliveredDate),
			Equipe:             TeamView{Pedagogo: c.Pedagogue, Tecnico: c.Technician},
			EventosAssociados:  subEvents(c, trainings),
		})
	}
	return out
}

// subEvents collects the course's own pilot and training windows plus the
// extra trainings matched by name, sorted by start date.
func subEvents(c domain.Course, trainings []domain.ExtraTraining) []SubEventView {
	var out []SubEventView

	if c.PilotStart != nil {
		out = append(out, SubEventView{
			Tipo:     "Piloto",
			Inicio:   day(c.PilotStart),
			Fim:      dayOr(c.PilotEnd, c.PilotStart),
			Pedagogo: c.Pedagogue,
		})
	}
	if c.TrainingStart != nil {
		out = append(out, SubEventView{
			Tipo:     "Formação",
			Inicio:   day(c.TrainingStart),
			Fim:      dayOr(c.TrainingEnd, c.TrainingStart),
			Pedagogo: c.Pedagogue,
		})
	}
	for _, tr := range trainings {
		if tr.Start == nil || !tr.MatchesCourse(c.Name) {
			continue
		}
		out = append(out, SubEventView{
			Tipo:     "Formação",
			Inicio:   day(tr.Start),
			Fim:      dayOr(tr.End, tr.Start),
			Pedagogo: tr.Pedagogue,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Inicio < out[j].Inicio })
	return out
}

func activityViews(split domain.ActivitySplit) ActivitySplitView {
	conv := func(in []domain.OtherActivity) []ActivityView {
		out := make([]ActivityView, 0, len(in))
		for _, a := range in {
			out = append(out, ActivityView{
				Tipo:        a.Kind,
				Tema:        a.Topic,
				Inicio:      dayPtr(a.Start),
				Fim:         dayPtr(a.End),
				Responsavel: a.Responsible,
				Ano:         a.Year,
			})
		}
		return out
	}
	return ActivitySplitView{
		Pedagogos: conv(split.Pedagogues),
		Tecnicos:  conv(split.Technicians),
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

func dayPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := day(t)
	return &s
}
