// Package series projects the next occurrence of a recurring event series
package series

import (
	"time"

	"github.com/teambition/rrule-go"

	ptime "eventcatalog/internal/platform/time"
)

// maxOccurrences caps a single Occurrences window
const maxOccurrences = 5000

// CycleRule is how a series says it recurs
type CycleRule struct {
	Type string
	Day  time.Weekday
	// Week of the month, 1 to 5, -1 for the last; only monthly rules read it
	Week int
}

// Series is the part of a recurring series the projector needs
type Series struct {
	ID          int64
	Name        string
	Slug        string
	Rule        CycleRule
	FoundedAt   time.Time
	CancelledAt *time.Time
	Start       ptime.Clock
	End         ptime.Clock
	// Length overrides End when set
	Length     time.Duration
	Visibility int
	CreatedBy  int64
	Tags       []string
	Entities   []string
	VenueName  string
}

// Duration of one occurrence
func (s Series) Duration() time.Duration {
	if s.Length > 0 {
		return s.Length
	}
	return s.End.Since(s.Start)
}

// Value exposes series fields to predicates
func (s Series) Value(field string) (any, bool) {
	switch field {
	case "id":
		return s.ID, true
	case "name":
		return s.Name, true
	case "slug":
		return s.Slug, true
	case "visibility":
		return s.Visibility, true
	case "created_by":
		return s.CreatedBy, true
	case "founded_at":
		return s.FoundedAt, true
	case "cancelled_at":
		return s.CancelledAt, true
	case "venue_name":
		return s.VenueName, s.VenueName != ""
	case "occurrence_type":
		return s.Rule.Type, true
	}
	return nil, false
}

// Related exposes tags and entities
func (s Series) Related(assoc string) []string {
	switch assoc {
	case "tags":
		return s.Tags
	case "entities":
		return s.Entities
	}
	return nil
}

// Projector computes synthetic occurrences
type Projector struct {
	Rules    *RuleTable
	Location *time.Location
}

// NewProjector uses the default rules when rt is nil and UTC when loc is nil
func NewProjector(rt *RuleTable, loc *time.Location) *Projector {
	if rt == nil {
		rt = DefaultRules()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Projector{Rules: rt, Location: loc}
}

func (p *Projector) loc() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

func (p *Projector) cancelledBy(s Series, t time.Time) bool {
	return s.CancelledAt != nil && !s.CancelledAt.After(t)
}

// recurrence builds the rrule for s; ok is false when s never projects
func (p *Projector) recurrence(s Series) (*rrule.RRule, bool) {
	rule, ok := p.Rules.Lookup(s.Rule.Type)
	if !ok || rule.Freq == FreqNone || key(rule.Type) == key(NoSchedule) {
		return nil, false
	}
	if s.FoundedAt.IsZero() {
		return nil, false
	}
	opt := rrule.ROption{
		Interval: rule.Interval,
		Dtstart:  s.Start.On(s.FoundedAt, p.loc()),
	}
	switch rule.Freq {
	case FreqDaily:
		opt.Freq = rrule.DAILY
	case FreqWeekly:
		opt.Freq = rrule.WEEKLY
	case FreqMonthly:
		opt.Freq = rrule.MONTHLY
	case FreqYearly:
		opt.Freq = rrule.YEARLY
	default:
		return nil, false
	}
	if rule.ByDay {
		wd := weekday(s.Rule.Day)
		if rule.ByWeek {
			if !validWeek(s.Rule.Week) {
				return nil, false
			}
			wd = wd.Nth(s.Rule.Week)
		}
		opt.Byweekday = []rrule.Weekday{wd}
	}
	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, false
	}
	return r, true
}

func validWeek(w int) bool { return w == -1 || (w >= 1 && w <= 5) }

var weekdays = [...]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

func weekday(d time.Weekday) rrule.Weekday {
	if d < time.Sunday || d > time.Saturday {
		d = time.Sunday
	}
	return weekdays[d]
}

// NextOccurrence is the first projected start on or after today (in the
// projector's location); false when the series is cancelled, has no schedule,
// or a concrete event in existing already falls on that day
func (p *Projector) NextOccurrence(s Series, now time.Time, existing []time.Time) (time.Time, bool) {
	if p.cancelledBy(s, now) {
		return time.Time{}, false
	}
	r, ok := p.recurrence(s)
	if !ok {
		return time.Time{}, false
	}
	next := r.After(ptime.StartOfDay(now, p.loc()), true)
	if next.IsZero() || p.cancelledBy(s, next) {
		return time.Time{}, false
	}
	for _, at := range existing {
		if ptime.SameDay(at, next, p.loc()) {
			return time.Time{}, false
		}
	}
	return next, true
}

// NextOccurrenceEnd is NextOccurrence plus the series length
func (p *Projector) NextOccurrenceEnd(s Series, now time.Time, existing []time.Time) (time.Time, bool) {
	next, ok := p.NextOccurrence(s, now, existing)
	if !ok {
		return time.Time{}, false
	}
	return next.Add(s.Duration()), true
}

// Occurrences lists projected starts in [from, to), stopping at cancellation
func (p *Projector) Occurrences(s Series, from, to time.Time) []time.Time {
	if !to.After(from) {
		return nil
	}
	r, ok := p.recurrence(s)
	if !ok {
		return nil
	}
	var out []time.Time
	for _, at := range r.Between(from, to, true) {
		if !at.Before(to) || p.cancelledBy(s, at) || len(out) == maxOccurrences {
			break
		}
		out = append(out, at)
	}
	return out
}
