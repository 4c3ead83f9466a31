// Package ethiopic converts between Gregorian instants and Ethiopian
// calendar dates. The Ethiopian calendar has twelve 30-day months followed
// by Pagume, a short 13th month of 5 days (6 in a leap year). New Year
// falls on Gregorian September 11, or September 12 in the year following
// an Ethiopian leap year.
package ethiopic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Months lists the 13 month names, Meskerem first.
var Months = [13]string{
	"Meskerem", "Tikimt", "Hidar", "Tahsas", "Tir", "Yekatit",
	"Megabit", "Miyazia", "Ginbot", "Sene", "Hamle", "Nehase", "Pagume",
}

var (
	ErrInvalidMonth = errors.New("ethiopic: month out of range")
	ErrInvalidDay   = errors.New("ethiopic: day out of range for month")
	ErrOutOfRange   = errors.New("ethiopic: day offset exceeds year length")
	ErrParse        = errors.New("ethiopic: unparseable date")
)

// Date is an Ethiopian calendar date. Month runs 1-13; day 1-30, or 1-5/6
// for Pagume depending on the year's own leap status.
type Date struct {
	Year  int
	Month int
	Day   int
}

// IsLeapYear reports whether the Ethiopian year has a 6-day Pagume.
func IsLeapYear(year int) bool {
	return year%4 == 3
}

// DaysInMonth returns 30 for months 1-12 and the Pagume length for month 13.
func DaysInMonth(year, month int) int {
	if month == 13 {
		if IsLeapYear(year) {
			return 6
		}
		return 5
	}
	return 30
}

func daysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// NewYear returns the Gregorian day (UTC midnight) on which the Ethiopian
// year begins. The September offset depends on the PREVIOUS year's leap
// status: a 6-day Pagume pushes the following New Year to September 12.
func NewYear(year int) time.Time {
	day := 11
	if IsLeapYear(year - 1) {
		day = 12
	}
	return time.Date(year+7, time.September, day, 0, 0, 0, 0, time.UTC)
}

// ToEthiopian converts a Gregorian instant to its Ethiopian date.
// Time-of-day is discarded; the instant's own calendar day is used.
func ToEthiopian(t time.Time) Date {
	g := truncate(t)

	year := g.Year() - 7
	ny := NewYear(year)
	if g.Before(ny) {
		year--
		ny = NewYear(year)
	}

	offset := int(g.Sub(ny).Hours() / 24)
	month := offset/30 + 1
	if month > 13 {
		month = 13
	}
	return Date{Year: year, Month: month, Day: offset%30 + 1}
}

// ToGregorian converts an Ethiopian date to the Gregorian day (UTC midnight)
// it falls on.
func ToGregorian(year, month, day int) (time.Time, error) {
	if err := validate(year, month, day); err != nil {
		return time.Time{}, err
	}
	offset := (month-1)*30 + day - 1
	if offset >= daysInYear(year) {
		return time.Time{}, fmt.Errorf("%w: %d %s %d", ErrOutOfRange, day, Months[month-1], year)
	}
	return NewYear(year).AddDate(0, 0, offset), nil
}

// Gregorian is a convenience wrapper around ToGregorian.
func (d Date) Gregorian() (time.Time, error) {
	return ToGregorian(d.Year, d.Month, d.Day)
}

// FormatDate renders "{day} {MonthName} {year}", e.g. "10 Meskerem 2017".
// Invalid day/month combinations (including Pagume in a common year) fail
// rather than rendering a date that does not exist.
func FormatDate(d Date) (string, error) {
	if err := validate(d.Year, d.Month, d.Day); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %s %d", d.Day, Months[d.Month-1], d.Year), nil
}

// Format converts a Gregorian instant and renders it as an Ethiopian date.
func Format(t time.Time) (string, error) {
	return FormatDate(ToEthiopian(t))
}

// Parse is the inverse of FormatDate. Month names match case-insensitively.
func Parse(s string) (Date, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return Date{}, fmt.Errorf("%w: %q", ErrParse, s)
	}

	day, err := strconv.Atoi(fields[0])
	if err != nil {
		return Date{}, fmt.Errorf("%w: bad day in %q", ErrParse, s)
	}
	year, err := strconv.Atoi(fields[2])
	if err != nil {
		return Date{}, fmt.Errorf("%w: bad year in %q", ErrParse, s)
	}

	month := 0
	for i, name := range Months {
		if strings.EqualFold(name, fields[1]) {
			month = i + 1
			break
		}
	}
	if month == 0 {
		return Date{}, fmt.Errorf("%w: unknown month in %q", ErrParse, s)
	}

	d := Date{Year: year, Month: month, Day: day}
	if err := validate(d.Year, d.Month, d.Day); err != nil {
		return Date{}, err
	}
	return d, nil
}

// SundaysInYear walks every Gregorian day of the Ethiopian year and returns
// the formatted dates that fall on a Sunday, in order.
func SundaysInYear(year int) []string {
	var sundays []string
	g := NewYear(year)
	for i := 0; i < daysInYear(year); i++ {
		if g.Weekday() == time.Sunday {
			d := ToEthiopian(g)
			sundays = append(sundays, fmt.Sprintf("%d %s %d", d.Day, Months[d.Month-1], d.Year))
		}
		g = g.AddDate(0, 0, 1)
	}
	return sundays
}

func validate(year, month, day int) error {
	if month < 1 || month > 13 {
		return fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}
	if day < 1 || day > DaysInMonth(year, month) {
		return fmt.Errorf("%w: day %d of %s %d", ErrInvalidDay, day, Months[month-1], year)
	}
	return nil
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
