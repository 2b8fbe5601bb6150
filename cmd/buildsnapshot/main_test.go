package main

import "testing"

func TestRowsToRecords(t *testing.T) {
	rows := [][]string{
		{"Curso", "Disponível a campo", "", "Valor"},
		{"Matemática Básica", "45000", "ignorado", "0.8"},
		{"", "", "", ""},
		{"Elétrica Rural", "", "", "texto"},
	}

	records := rowsToRecords(rows, "Checklist de Entregas - Maria.xlsx")
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first["Curso"] != "Matemática Básica" {
		t.Errorf("unexpected course: %v", first["Curso"])
	}
	if got, ok := first["Disponível a campo"].(float64); !ok || got != 45000 {
		t.Errorf("expected serial 45000 as number, got %v", first["Disponível a campo"])
	}
	if got, ok := first["Valor"].(float64); !ok || got != 0.8 {
		t.Errorf("expected valor 0.8 as number, got %v", first["Valor"])
	}
	if _, present := first["ignorado"]; present {
		t.Error("blank-header column should be dropped")
	}
	if first["filename"] != "Checklist de Entregas - Maria.xlsx" {
		t.Errorf("unexpected filename: %v", first["filename"])
	}

	second := records[1]
	if second["Valor"] != "texto" {
		t.Errorf("non numeric cell should stay a string, got %v", second["Valor"])
	}
	if _, present := second["Disponível a campo"]; present {
		t.Error("empty cell should be omitted")
	}
}

func TestRowsToRecordsHeaderOnly(t *testing.T) {
	rows := [][]string{{"Curso", "Nível"}}
	if records := rowsToRecords(rows, "x.xlsx"); records != nil {
		t.Errorf("expected nil for header-only sheet, got %v", records)
	}
}

func TestCellValue(t *testing.T) {
	if v := cellValue("45120"); v != float64(45120) {
		t.Errorf("expected float64 45120, got %v (%T)", v, v)
	}
	if v := cellValue("Etapa 3"); v != "Etapa 3" {
		t.Errorf("expected string passthrough, got %v", v)
	}
}
