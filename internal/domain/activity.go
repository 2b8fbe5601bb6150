package domain

import "time"

// Event is a calendar-only entity from the "Eventos" table; it is never
// linked to a Course.
type Event struct {
	Topic      string
	Kind       string
	Style      string // "Interna" / "Externa"
	Start      *time.Time
	End        *time.Time
	Technician string
}

// OtherActivity is one row of the "Outras Atividades" table.
type OtherActivity struct {
	Kind        string
	Topic       string
	Start       *time.Time
	End         *time.Time
	Responsible string
	Year        *int
}

// ActivitySplit partitions other activities by roster membership of the
// responsible person.
type ActivitySplit struct {
	Pedagogues  []OtherActivity
	Technicians []OtherActivity
}
