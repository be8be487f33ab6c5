package timezone

import (
	"time"
	_ "time/tzdata"
)

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Australia/Sydney")
	if err != nil {
		panic(err)
	}
}

// the bank reports local date-times without an offset, they are
// always in Sydney time regardless of where this process runs.
func Now() time.Time {
	return time.Now().In(Location)
}

// ParseLocal parses a date-time that carries no offset as Sydney time.
func ParseLocal(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, Location)
}
