package custody

import (
	"time"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
)

const (
	day        = 24 * time.Hour
	dateLayout = "2006-01-02"
)

// Day truncates t to its calendar day, expressed as UTC midnight.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type DateRange struct {
	From time.Time
	To   time.Time
}

func orderRange(o *repository.KeeperOrder) DateRange {
	return DateRange{From: Day(o.BookingDate), To: Day(o.DueDate)}
}

// within reports whether r lies strictly inside outer on both ends.
func (r DateRange) within(outer DateRange) bool {
	return r.From.After(outer.From) && r.To.Before(outer.To)
}

// nestedInChain is the single containment rule for submissions, transfers and
// extensions: r must lie strictly inside every given order's range.
func nestedInChain(r DateRange, orders []*repository.KeeperOrder) bool {
	for _, o := range orders {
		if !r.within(orderRange(o)) {
			return false
		}
	}
	return true
}

// latestAllowedDue is the last day a keeper nested under pred may keep the device.
func latestAllowedDue(pred *repository.KeeperOrder) time.Time {
	return Day(pred.DueDate).Add(-day)
}
