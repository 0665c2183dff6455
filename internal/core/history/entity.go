package history

import (
	"strings"
	"time"
)

// Record is one stored city lookup owned by a user
type Record struct {
	ID                 uint
	UserID             uint
	Username           string
	City               string
	Country            string
	Timestamp          time.Time
	Temperature        *float64
	WeatherDescription *string
}

// SaveParams is the explicit "save search" input
type SaveParams struct {
	City    string
	Country string
}

// LookupParams is what a successful weather lookup contributes to history
type LookupParams struct {
	City        string
	Country     string
	Temperature *float64
	Description string
}

// LookupResult reports the outcome of a best-effort history write.
// Err is set when nothing was persisted.
type LookupResult struct {
	Record *Record
	Err    error
}

// Saved reports whether a record was persisted
func (r LookupResult) Saved() bool {
	return r.Err == nil && r.Record != nil
}

func (p *SaveParams) Normalize() {
	p.City = strings.TrimSpace(p.City)
	p.Country = strings.TrimSpace(p.Country)
}
