// Package notify derives the dashboard's alert feed from the normalized
// course set.
package notify

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"delivery-dashboard/internal/domain"
)

// Kind discriminates the two alert producers.
type Kind string

const (
	KindDelivered Kind = "entrega"
	KindForecast  Kind = "previsao"
)

// Notification is one alert item, newest first in the generated list.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"tipo"`
	Message   string    `json:"mensagem"`
	Timestamp time.Time `json:"data"`
}

// monthNames holds the pt-BR month names used in forecast messages.
var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// idNamespace seeds the name-based notification uuids. Ids must be
// deterministic: two runs over the same snapshot with the same clock
// produce byte-identical output.
var idNamespace = uuid.MustParse("9f2c1a47-7b3e-4d35-8f60-2b1a5c9e0d44")

// Generator produces alerts. Clock and id source are injected so tests can
// pin both.
type Generator struct {
	Now   func() time.Time
	NewID func(key string) string
}

// NewGenerator returns a Generator on the wall clock and name-based uuids.
func NewGenerator(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		Now: now,
		NewID: func(key string) string {
			return uuid.NewSHA1(idNamespace, []byte(key)).String()
		},
	}
}

// Generate scans the course set for the two alert conditions and returns
// the combined list sorted descending by timestamp.
func (g *Generator) Generate(courses []domain.Course) []Notification {
	now := g.Now()
	var out []Notification

	for _, c := range courses {
		if !c.Delivered() || c.DeliveredDate == nil {
			continue
		}
		out = append(out, Notification{
			ID:      g.NewID(string(KindDelivered) + "/" + c.ID),
			Kind:    KindDelivered,
			Message: fmt.Sprintf("Curso %q entregue.", c.Name),
			// DeliveredDate approximates processing time; see the field
			// doc on domain.Course.
			Timestamp: *c.DeliveredDate,
		})
	}

	if n := countForecast(courses, now); n > 0 {
		plural := ""
		if n > 1 {
			plural = "s"
		}
		out = append(out, Notification{
			ID:   g.NewID(string(KindForecast) + "/" + now.Format("2006-01")),
			Kind: KindForecast,
			Message: fmt.Sprintf("%d curso%s previsto%s para lançamento em %s.",
				n, plural, plural, monthNames[now.Month()-1]),
			Timestamp: now,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// countForecast counts non-delivered courses available in the current
// calendar month.
func countForecast(courses []domain.Course, now time.Time) int {
	n := 0
	for _, c := range courses {
		if c.Delivered() || c.AvailableDate == nil {
			continue
		}
		if c.AvailableDate.Year() == now.Year() && c.AvailableDate.Month() == now.Month() {
			n++
		}
	}
	return n
}
