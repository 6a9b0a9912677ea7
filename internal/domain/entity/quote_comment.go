package entity

import "time"

// QuoteComment es una nota libre sobre una cotización. Solo se agrega: nunca se
// edita ni se borra; se listan de la más reciente a la más antigua.
type QuoteComment struct {
	ID        string
	QuoteID   string
	UserID    string
	Comment   string
	CreatedAt time.Time
}
