package normalize

import (
	"testing"
	"time"

	"delivery-dashboard/internal/domain"
	"delivery-dashboard/internal/snapshot"
)

func fixedNow() time.Time {
	return time.Date(2023, time.June, 1, 12, 0, 0, 0, time.UTC)
}

func testNormalizer() *Normalizer {
	n := New(fixedNow)
	n.Loc = time.UTC
	return n
}

func serial(v float64) snapshot.Serial { return snapshot.Serial{Value: v, Valid: true} }
func number(v float64) snapshot.Number { return snapshot.Number{Value: v, Valid: true} }

func TestCoursesDropsBlankNames(t *testing.T) {
	rows := []snapshot.ChecklistRow{
		{Curso: "Curso A"},
		{Curso: "   "},
		{Curso: ""},
		{Curso: "Curso B"},
	}

	courses := testNormalizer().Courses(rows)

	if len(courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(courses))
	}
	if len(courses) > len(rows) {
		t.Error("normalized output can never exceed raw input")
	}
	if courses[0].Name != "Curso A" || courses[1].Name != "Curso B" {
		t.Errorf("input order not preserved: %q, %q", courses[0].Name, courses[1].Name)
	}
	// Ids are positions within the filtered list, not the raw one.
	if courses[0].ID != "CURSO_1" || courses[1].ID != "CURSO_2" {
		t.Errorf("unexpected ids %q, %q", courses[0].ID, courses[1].ID)
	}
}

func TestCoursesFullRow(t *testing.T) {
	rows := []snapshot.ChecklistRow{{
		Curso:            "Matemática Básica",
		Nivel:            "Básico",
		Tipo:             "Curso novo",
		Pedagogo:         "Leandro",
		DisponivelACampo: serial(45000), // 2023-03-15
		Valor:            number(1500),
		Peso:             number(3),
		Conclusao:        number(0.75),
		Indicador:        number(0.9),
		EtapaAtual:       "Entregue",
		PilotoInicio:     serial(44900),
		Filename:         "Checklist de Entregas - Enderson Lopes.xlsx",
	}}

	courses := testNormalizer().Courses(rows)
	if len(courses) != 1 {
		t.Fatalf("expected 1 course, got %d", len(courses))
	}
	c := courses[0]

	if c.Kind != domain.KindNewCourse {
		t.Errorf("Kind = %q, want KindNewCourse", c.Kind)
	}
	if c.Pedagogue != "Leandro Prado" {
		t.Errorf("Pedagogue = %q, want 'Leandro Prado'", c.Pedagogue)
	}
	if c.Technician != "Enderson Lopes" {
		t.Errorf("Technician = %q, want 'Enderson Lopes'", c.Technician)
	}
	if c.AvailableDate == nil || c.AvailableDate.Format("2006-01-02") != "2023-03-15" {
		t.Fatalf("unexpected AvailableDate %v", c.AvailableDate)
	}
	if c.AvailableYear == nil || *c.AvailableYear != 2023 {
		t.Errorf("unexpected AvailableYear %v", c.AvailableYear)
	}
	if c.AvailableQuarter == nil || *c.AvailableQuarter != 1 {
		t.Errorf("unexpected AvailableQuarter %v", c.AvailableQuarter)
	}
	if c.Value != 1500 || c.Weight != 3 || c.Completion != 0.75 {
		t.Errorf("unexpected numeric fields: %v %v %v", c.Value, c.Weight, c.Completion)
	}
	if !c.Delivered() {
		t.Error("course at stage Entregue must report Delivered")
	}
	if c.DeliveredDate == nil || !c.DeliveredDate.Equal(fixedNow()) {
		t.Errorf("DeliveredDate = %v, want the injected clock value", c.DeliveredDate)
	}
	if c.PilotStart == nil {
		t.Error("expected a pilot start date")
	}
}

func TestCoursesDefaultsAndNulls(t *testing.T) {
	rows := []snapshot.ChecklistRow{{Curso: "Sem Dados", Tipo: "qualquer coisa"}}

	c := testNormalizer().Courses(rows)[0]

	if c.Kind != domain.KindOther {
		t.Errorf("Kind = %q, want KindOther", c.Kind)
	}
	if c.AvailableDate != nil || c.AvailableYear != nil || c.AvailableQuarter != nil {
		t.Error("missing availability must leave date, year and quarter nil together")
	}
	if c.Value != 0 || c.Weight != 0 || c.Completion != 0 || c.RealIndicator != 0 {
		t.Error("missing numeric cells must default to 0")
	}
	if c.DeliveredDate != nil {
		t.Error("a non-delivered course must not carry a delivered date")
	}
}

func TestCoursesClampsIndicator(t *testing.T) {
	rows := []snapshot.ChecklistRow{
		{Curso: "Acima", Indicador: number(3.5)},
		{Curso: "Abaixo", Indicador: number(-1)},
	}

	courses := testNormalizer().Courses(rows)
	if courses[0].RealIndicator != 1 {
		t.Errorf("RealIndicator = %v, want clamp to 1", courses[0].RealIndicator)
	}
	if courses[1].RealIndicator != 0 {
		t.Errorf("RealIndicator = %v, want clamp to 0", courses[1].RealIndicator)
	}
}

func TestCoursesClampsCompletion(t *testing.T) {
	rows := []snapshot.ChecklistRow{
		{Curso: "Acima", Conclusao: number(7)},
		{Curso: "Abaixo", Conclusao: number(-0.3)},
	}

	courses := testNormalizer().Courses(rows)
	if courses[0].Completion != 1 {
		t.Errorf("Completion = %v, want clamp to 1", courses[0].Completion)
	}
	if courses[1].Completion != 0 {
		t.Errorf("Completion = %v, want clamp to 0", courses[1].Completion)
	}
}

func TestComputedIndicatorSchedule(t *testing.T) {
	// now is fixed at 2023-06-01.
	testCases := []struct {
		name     string
		serial   float64
		expected float64
	}{
		{"seven months out", 45292, 0.8}, // 2024-01-01
		{"five months out", 45200, 0.4},  // 2023-10-01
		{"next month", 45108, 0.5},       // 2023-07-01: raw indicator
	}

	for _, tc := range testCases {
		rows := []snapshot.ChecklistRow{{
			Curso:            snapshot.Text(tc.name),
			Indicador:        number(0.5),
			DisponivelACampo: serial(tc.serial),
		}}
		c := testNormalizer().Courses(rows)[0]
		if c.ComputedIndicator != tc.expected {
			t.Errorf("%s: ComputedIndicator = %v, want %v", tc.name, c.ComputedIndicator, tc.expected)
		}
	}

	// Without a date the raw indicator stands.
	c := testNormalizer().Courses([]snapshot.ChecklistRow{{Curso: "Sem data", Indicador: number(0.5)}})[0]
	if c.ComputedIndicator != 0.5 {
		t.Errorf("ComputedIndicator without a date = %v, want 0.5", c.ComputedIndicator)
	}
}

func TestExtraTrainingsKeepAllRows(t *testing.T) {
	rows := []snapshot.FormacaoRow{
		{Curso: "Curso A", Pedagogo: "Josimeri", Inicio: serial(45100), Filename: "Checklist de Entregas - Marcia Salles.xlsx"},
		{Curso: ""}, // kept: only a start date gates calendar inclusion
	}

	trainings := testNormalizer().ExtraTrainings(rows)
	if len(trainings) != 2 {
		t.Fatalf("expected 2 trainings, got %d", len(trainings))
	}
	if trainings[0].Pedagogue != "Josimeri Grein" {
		t.Errorf("Pedagogue = %q, want 'Josimeri Grein'", trainings[0].Pedagogue)
	}
	if trainings[0].Technician != "Marcia Salles" {
		t.Errorf("Technician = %q, want 'Marcia Salles'", trainings[0].Technician)
	}
	if trainings[1].Start != nil {
		t.Error("missing start must stay nil")
	}
	if !trainings[0].MatchesCourse(" Curso A ") {
		t.Error("course match must trim both sides")
	}
}

func TestOtherActivitiesPartition(t *testing.T) {
	rows := []snapshot.AtividadeRow{
		{Tipo: "Oficina", Inicio: serial(45000), Filename: "Outras Atividades - Josimeri Grein.xlsx"},
		{Tipo: "Visita", Inicio: serial(45010), Filename: "Outras Atividades - Carlos Lima.xlsx"},
		{Tipo: "Sem data", Filename: "Outras Atividades - Leandro Prado.xlsx"},
	}

	split := testNormalizer().OtherActivities(rows)

	if len(split.Pedagogues) != 2 {
		t.Fatalf("expected 2 pedagogue activities, got %d", len(split.Pedagogues))
	}
	if len(split.Technicians) != 1 {
		t.Fatalf("expected 1 technician activity, got %d", len(split.Technicians))
	}
	if split.Technicians[0].Responsible != "Carlos Lima" {
		t.Errorf("Responsible = %q, want 'Carlos Lima'", split.Technicians[0].Responsible)
	}
	if split.Pedagogues[0].Year == nil || *split.Pedagogues[0].Year != 2023 {
		t.Errorf("unexpected activity year %v", split.Pedagogues[0].Year)
	}
	if split.Pedagogues[1].Year != nil {
		t.Error("an activity without a start date must have a nil year")
	}
}
