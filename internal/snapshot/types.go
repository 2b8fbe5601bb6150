// Package snapshot defines the shape of the remote data file and fetches it.
//
// The file is one JSON document regenerated from the team's spreadsheets.
// Every top-level array is optional; a missing table means empty, never an
// error. Cell values are loosely typed (numbers, numeric strings, blanks),
// so the row structs use lenient wrapper types that absorb whatever the
// export produced instead of failing the whole document.
package snapshot

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Snapshot is the parsed remote document.
type Snapshot struct {
	Checklist        []ChecklistRow `json:"checklist"`
	OutrasFormacoes  []FormacaoRow  `json:"outrasFormacoes"`
	Eventos          []EventoRow    `json:"eventos"`
	OutrasAtividades []AtividadeRow `json:"outrasAtividades"`
}

// ChecklistRow is one course row of the delivery checklist. Keys are the
// spreadsheet column headers verbatim.
type ChecklistRow struct {
	Curso            Text   `json:"Curso"`
	Nivel            Text   `json:"Nível"`
	Tipo             Text   `json:"Tipo"`
	Pedagogo         Text   `json:"Pedagogo"`
	DisponivelACampo Serial `json:"Disponível a campo"`
	Valor            Number `json:"Valor"`
	Peso             Number `json:"Peso"`
	Conclusao        Number `json:"Conclusão"`
	Indicador        Number `json:"Indicador"`
	EtapaAtual       Text   `json:"Etapa Atual"`
	PilotoInicio     Serial `json:"Curso Piloto (Início)"`
	PilotoFim        Serial `json:"Curso Piloto (Final)"`
	FormacaoInicio   Serial `json:"Formação (Início)"`
	FormacaoFim      Serial `json:"Formação (Final)"`
	Filename         Text   `json:"filename"`
}

// FormacaoRow is one extra-training row from the "Outras Formações" table.
type FormacaoRow struct {
	Curso    Text   `json:"Curso"`
	Nivel    Text   `json:"Nível"`
	Tipo     Text   `json:"Tipo"`
	Pedagogo Text   `json:"Pedagogo"`
	Inicio   Serial `json:"Início (Data)"`
	Fim      Serial `json:"Final (Data)"`
	Filename Text   `json:"filename"`
}

// EventoRow is one row of the "Eventos" table.
type EventoRow struct {
	Tema     Text   `json:"Tema"`
	Tipo     Text   `json:"Tipo"`
	Estilo   Text   `json:"Estilo"`
	Inicio   Serial `json:"Início (Data)"`
	Fim      Serial `json:"Final (Data)"`
	Filename Text   `json:"filename"`
}

// AtividadeRow is one row of the "Outras Atividades" table.
type AtividadeRow struct {
	Tipo     Text   `json:"Tipo"`
	Tema     Text   `json:"Tema"`
	Inicio   Serial `json:"Início (Data)"`
	Fim      Serial `json:"Final (Data)"`
	Filename Text   `json:"filename"`
}

// Text is a free-text cell. Raw exports occasionally type a text column as
// a number (a level cell holding 2023), so numbers are stringified rather
// than failing the row; anything else unusable decodes as empty.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	*t = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}

	if b[0] == '"' {
		var raw string
		if err := json.Unmarshal(b, &raw); err == nil {
			*t = Text(raw)
		}
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*t = Text(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return nil
}

func (t Text) String() string { return string(t) }

// Serial is a spreadsheet date-serial cell. It may arrive as a JSON number,
// a numeric string (raw cell exports), or anything else (blank, text),
// in which case it is simply not valid. Parsing never fails the row.
type Serial struct {
	Value float64
	Valid bool
}

func (s *Serial) UnmarshalJSON(b []byte) error {
	*s = Serial{}
	f, ok := parseLooseNumber(b)
	if ok {
		s.Value = f
		s.Valid = true
	}
	return nil
}

func (s Serial) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// Number is a loosely typed numeric cell with the same tolerance as Serial.
// Float returns the value or def when the cell held no usable number.
type Number struct {
	Value float64
	Valid bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	f, ok := parseLooseNumber(b)
	if ok {
		n.Value = f
		n.Valid = true
	}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n Number) Float(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Value
}

func parseLooseNumber(b []byte) (float64, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return 0, false
	}

	// string: "45000" or "0.85" (also tolerates a decimal comma)
	if b[0] == '"' {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return 0, false
		}
		raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
		if raw == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return 0, false
	}
	return f, true
}
