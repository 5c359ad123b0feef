package showing

import (
	"fmt"
	"sort"
	"time"
)

// FinishedGrace is how long after its start a showing still counts as upcoming.
const FinishedGrace = 30 * time.Minute

// Kind is the display bucket of a showing.
type Kind int

const (
	KindToday Kind = iota
	KindTomorrow
	KindLater
	KindFinished
)

func (k Kind) String() string {
	switch k {
	case KindToday:
		return "Today"
	case KindTomorrow:
		return "Tomorrow"
	case KindLater:
		return "Later"
	default:
		return "Finished"
	}
}

var (
	dayNames   = [...]string{"Sön", "Mån", "Tis", "Ons", "Tor", "Fre", "Lör"}
	monthNames = [...]string{"jan", "feb", "mar", "apr", "maj", "jun", "jul", "aug", "sep", "okt", "nov", "dec"}
)

// Bucket is a parsed showing placed relative to the reference moment.
type Bucket struct {
	Kind Kind
	At   time.Time
	// Days is the calendar-day distance from the reference date.
	Days int
}

// DayName is the short Swedish weekday name of the showing.
func (b Bucket) DayName() string {
	return dayNames[b.At.Weekday()]
}

// Label renders the bucket the way the listing cards show it:
// "Idag 13:30", "Imorgon", "Tor 17:45" within a week, else "10 mar 17:45".
func (b Bucket) Label() string {
	var date string
	switch {
	case b.Kind == KindToday:
		date = "Idag"
	case b.Kind == KindTomorrow:
		date = "Imorgon"
	case b.Days < 8:
		date = b.DayName()
	default:
		date = fmt.Sprintf("%d %s", b.At.Day(), monthNames[b.At.Month()-1])
	}

	if b.At.Hour() == 0 && b.At.Minute() == 0 {
		return date
	}
	return fmt.Sprintf("%s %02d:%02d", date, b.At.Hour(), b.At.Minute())
}

// Format buckets raw relative to now. It reports false when raw carries no
// usable date. Showings that started more than FinishedGrace before now are
// returned with KindFinished.
func Format(raw string, now time.Time) (Bucket, bool) {
	at := Parse(raw, now)
	if IsUnparseable(at) {
		return Bucket{}, false
	}

	b := Bucket{At: at, Days: dayDiff(at, now)}
	switch {
	case at.Before(now.Add(-FinishedGrace)):
		b.Kind = KindFinished
	case b.Days == 0:
		b.Kind = KindToday
	case b.Days == 1:
		b.Kind = KindTomorrow
	default:
		b.Kind = KindLater
	}
	return b, true
}

// dayDiff counts calendar days from b's date to a's date.
func dayDiff(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(da.Sub(db).Hours() / 24)
}

// Sort orders items by their parsed showing instant. Unparseable showings
// go last; ties keep their order.
func Sort[T any](items []T, raw func(T) string, now time.Time) {
	type keyed struct {
		at   time.Time
		item T
	}
	ks := make([]keyed, len(items))
	for i, item := range items {
		ks[i] = keyed{at: Parse(raw(item), now), item: item}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		return ks[i].at.Before(ks[j].at)
	})
	for i := range ks {
		items[i] = ks[i].item
	}
}
