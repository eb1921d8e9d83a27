package calendar

import "time"

// GridCells is the number of cells in a month grid: six full weeks.
const GridCells = 42

// Day is one cell of a month grid.
type Day struct {
	Date         time.Time
	Key          string
	CurrentMonth bool
	Today        bool
}

// BuildMonthGrid lays out the month containing ref, marking the current day.
func BuildMonthGrid(ref time.Time) []Day {
	return MonthGrid(ref, time.Now())
}

// MonthGrid lays out the month containing ref as 42 Sunday-first cells.
// Days of the previous month pad the first week, days of the next month fill
// the remaining cells. Only a current-month cell can be marked as today.
func MonthGrid(ref, today time.Time) []Day {
	loc := ref.Location()
	first, last := MonthRange(ref)
	todayKey := DateKey(today.In(loc))

	days := make([]Day, 0, GridCells)

	lead := int(first.Weekday()) // Sunday == 0
	for i := lead; i > 0; i-- {
		d := first.AddDate(0, 0, -i)
		days = append(days, Day{Date: d, Key: DateKey(d)})
	}

	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := DateKey(d)
		days = append(days, Day{
			Date:         d,
			Key:          key,
			CurrentMonth: true,
			Today:        key == todayKey,
		})
	}

	next := last.AddDate(0, 0, 1)
	for len(days) < GridCells {
		days = append(days, Day{Date: next, Key: DateKey(next)})
		next = next.AddDate(0, 0, 1)
	}
	return days
}

// Weeks splits a grid into rows of seven days.
func Weeks(days []Day) [][]Day {
	var rows [][]Day
	for i := 0; i < len(days); i += 7 {
		end := i + 7
		if end > len(days) {
			end = len(days)
		}
		rows = append(rows, days[i:end])
	}
	return rows
}
