// Command eventcatalog-rules validates an occurrence rule file and previews what it projects
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"eventcatalog/internal/core/series"
	ptime "eventcatalog/internal/platform/time"
)

type options struct {
	rules   string
	typ     string
	day     string
	week    int
	founded string
	start   string
	from    string
	count   int
	tz      string
}

func main() {
	var o options
	flag.StringVar(&o.rules, "rules", "", "rule file (empty uses the embedded rules)")
	flag.StringVar(&o.typ, "type", "", "occurrence type to preview; empty lists the types")
	flag.StringVar(&o.day, "day", "Friday", "weekday of the sample series")
	flag.IntVar(&o.week, "week", 1, "week of month for monthly rules, -1 for the last")
	flag.StringVar(&o.founded, "founded", "2024-01-01", "first day of the sample series")
	flag.StringVar(&o.start, "start", "20:00", "start time of the sample series")
	flag.StringVar(&o.from, "from", "", "preview from this day (default today)")
	flag.IntVar(&o.count, "n", 5, "occurrences to print")
	flag.StringVar(&o.tz, "tz", "UTC", "calendar location")
	flag.Parse()

	if err := run(os.Stdout, o, time.Now()); err != nil {
		fmt.Fprintln(os.Stderr, "eventcatalog-rules:", err)
		os.Exit(1)
	}
}

func run(w io.Writer, o options, now time.Time) error {
	rt, err := series.LoadRuleFile(o.rules)
	if err != nil {
		return err
	}
	if o.typ == "" {
		fmt.Fprintf(w, "%d rules\n", rt.Len())
		for _, t := range rt.Types() {
			fmt.Fprintln(w, t)
		}
		return nil
	}
	if _, ok := rt.Lookup(o.typ); !ok {
		return fmt.Errorf("unknown occurrence type %q", o.typ)
	}

	loc, err := time.LoadLocation(o.tz)
	if err != nil {
		return err
	}
	day, ok := weekday(o.day)
	if !ok {
		return fmt.Errorf("bad weekday %q", o.day)
	}
	founded, err := time.ParseInLocation("2006-01-02", o.founded, loc)
	if err != nil {
		return fmt.Errorf("founded: %w", err)
	}
	start, err := ptime.ParseClock(o.start)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	from := ptime.StartOfDay(now, loc)
	if o.from != "" {
		if from, err = time.ParseInLocation("2006-01-02", o.from, loc); err != nil {
			return fmt.Errorf("from: %w", err)
		}
	}

	s := series.Series{
		Name:      "sample",
		Rule:      series.CycleRule{Type: o.typ, Day: day, Week: o.week},
		FoundedAt: founded,
		Start:     start,
	}
	p := series.NewProjector(rt, loc)
	// a year covers every rule but yearly, which gets ten
	to := from.AddDate(1, 0, 0)
	if strings.EqualFold(o.typ, "yearly") {
		to = from.AddDate(10, 0, 0)
	}
	got := p.Occurrences(s, from, to)
	if len(got) == 0 {
		fmt.Fprintf(w, "%s projects nothing\n", o.typ)
		return nil
	}
	for i, at := range got {
		if i == o.count {
			break
		}
		fmt.Fprintln(w, at.In(loc).Format("Mon Jan 2 2006 15:04"))
	}
	return nil
}

func weekday(s string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), s) || strings.EqualFold(d.String()[:3], s) {
			return d, true
		}
	}
	return 0, false
}
