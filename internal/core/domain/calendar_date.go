package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CalendarDate is a plain year/month/day with no time zone. Dates are never
// converted through time.Time in a local zone, so rendering cannot shift a
// day near UTC offsets.
type CalendarDate struct {
	Year  int
	Month int
	Day   int
}

var daysInMonth = [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// ParseCalendarDate reads a "YYYY-MM-DD" string component by component.
func ParseCalendarDate(s string) (CalendarDate, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return CalendarDate{}, fmt.Errorf("date %q is not in YYYY-MM-DD form", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return CalendarDate{}, fmt.Errorf("date %q is not in YYYY-MM-DD form", s)
		}
		nums[i] = n
	}
	d := CalendarDate{Year: nums[0], Month: nums[1], Day: nums[2]}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > d.monthLength() {
		return CalendarDate{}, fmt.Errorf("date %q does not exist", s)
	}
	return d, nil
}

func (d CalendarDate) monthLength() int {
	if d.Month == 2 && isLeapYear(d.Year) {
		return 29
	}
	return daysInMonth[d.Month-1]
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

// IsZero reports whether the date was never set.
func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

// Before reports whether d is strictly earlier than other.
func (d CalendarDate) Before(other CalendarDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// Format renders the date as DD/MM/YYYY.
func (d CalendarDate) Format() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}

// String renders the ISO form, YYYY-MM-DD.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d CalendarDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *CalendarDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseCalendarDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
