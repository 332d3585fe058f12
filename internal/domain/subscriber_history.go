package domain

import (
	"sort"
	"time"
)

// SubscriberHistory is one line across every stored bill.
type SubscriberHistory struct {
	Name   string
	Number string
	Months []SubscriberMonth // oldest first
}

// SubscriberMonth is a subscriber's charges in one bill.
type SubscriberMonth struct {
	Month time.Time
	Subscriber
}

// Histories groups the subscribers of bills by normalized number. The name
// comes from the most recent bill; histories are ordered by number.
func Histories(bills []*Bill) []SubscriberHistory {
	sorted := make([]*Bill, len(bills))
	copy(sorted, bills)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Month.Before(sorted[j].Month) })

	byNumber := map[string]*SubscriberHistory{}
	for _, b := range sorted {
		for _, s := range b.Subscribers {
			key := NormalizeNumber(s.Number)
			h, ok := byNumber[key]
			if !ok {
				h = &SubscriberHistory{}
				byNumber[key] = h
			}
			h.Name = s.Name
			h.Number = s.Number
			h.Months = append(h.Months, SubscriberMonth{Month: b.Month, Subscriber: s})
		}
	}

	histories := make([]SubscriberHistory, 0, len(byNumber))
	for _, h := range byNumber {
		histories = append(histories, *h)
	}
	sort.Slice(histories, func(i, j int) bool {
		return NormalizeNumber(histories[i].Number) < NormalizeNumber(histories[j].Number)
	})
	return histories
}

// FindHistory returns the history of number, ignoring dashes and spaces.
func FindHistory(histories []SubscriberHistory, number string) (SubscriberHistory, bool) {
	want := NormalizeNumber(number)
	for _, h := range histories {
		if NormalizeNumber(h.Number) == want {
			return h, true
		}
	}
	return SubscriberHistory{}, false
}
