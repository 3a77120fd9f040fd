package builtins

import (
	"fmt"
	"time"

	"dsq/internal/value"
)

// dsq has no wall-clock-arithmetic dependency anywhere in the pack, so
// this group is built directly on stdlib time (see DESIGN.md).

func parseTimestamp(v value.Value) (time.Time, error) {
	switch v.Kind() {
	case value.KindString:
		for _, layout := range []string{time.RFC3339, time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, v.AsString()); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("could not parse timestamp %q", v.AsString())
	case value.KindInt, value.KindFloat, value.KindBigInt:
		f, _ := value.ToFloat64(v)
		return time.Unix(int64(f), 0).UTC(), nil
	default:
		return time.Time{}, &value.KindError{Op: "timestamp parse", Kind: v.TypeName()}
	}
}

func registerDateTimeFns() {
	registerFn("now", 0, func(args []value.Value) (value.Value, error) {
		return value.String(time.Now().UTC().Format(time.RFC3339)), nil
	})
	registerFn("today", 0, func(args []value.Value) (value.Value, error) {
		return value.String(time.Now().UTC().Format("2006-01-02")), nil
	})
	field := func(name string, extract func(time.Time) int64) Fn {
		return func(args []value.Value) (value.Value, error) {
			t, err := parseTimestamp(args[0])
			if err != nil {
				return value.Null, err
			}
			return value.Int(extract(t)), nil
		}
	}
	registerFn("year", 1, field("year", func(t time.Time) int64 { return int64(t.Year()) }))
	registerFn("month", 1, field("month", func(t time.Time) int64 { return int64(t.Month()) }))
	registerFn("day", 1, field("day", func(t time.Time) int64 { return int64(t.Day()) }))
	registerFn("hour", 1, field("hour", func(t time.Time) int64 { return int64(t.Hour()) }))
	registerFn("minute", 1, field("minute", func(t time.Time) int64 { return int64(t.Minute()) }))
	registerFn("second", 1, field("second", func(t time.Time) int64 { return int64(t.Second()) }))
	registerFn("gmtime", 1, func(args []value.Value) (value.Value, error) {
		t, err := parseTimestamp(args[0])
		if err != nil {
			return value.Null, err
		}
		return value.String(t.Format(time.RFC3339)), nil
	})
	registerFn("start_of_month", 1, func(args []value.Value) (value.Value, error) {
		t, err := parseTimestamp(args[0])
		if err != nil {
			return value.Null, err
		}
		return value.String(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")), nil
	})
	registerFn("start_of_week", 1, func(args []value.Value) (value.Value, error) {
		t, err := parseTimestamp(args[0])
		if err != nil {
			return value.Null, err
		}
		offset := (int(t.Weekday()) + 6) % 7
		start := t.AddDate(0, 0, -offset)
		return value.String(time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC).Format("2006-01-02")), nil
	})
	truncate := func(args []value.Value) (value.Value, error) {
		t, err := parseTimestamp(args[0])
		if err != nil {
			return value.Null, err
		}
		return value.String(t.Format("2006-01-02")), nil
	}
	registerFn("truncate_time", 1, truncate)
	registerFn("truncate_date", 1, truncate)
	registerFn("date_diff", 2, func(args []value.Value) (value.Value, error) {
		a, err := parseTimestamp(args[0])
		if err != nil {
			return value.Null, err
		}
		b, err := parseTimestamp(args[1])
		if err != nil {
			return value.Null, err
		}
		days := int64(a.Sub(b).Hours() / 24)
		return value.Int(days), nil
	})
	registerFn("time_series_range", 3, func(args []value.Value) (value.Value, error) {
		start, err := parseTimestamp(args[0])
		if err != nil {
			return value.Null, err
		}
		end, err := parseTimestamp(args[1])
		if err != nil {
			return value.Null, err
		}
		stepDays := args[2].AsInt()
		if stepDays <= 0 {
			return value.Null, fmt.Errorf("time_series_range: step must be positive")
		}
		var out []value.Value
		for t := start; !t.After(end); t = t.AddDate(0, 0, int(stepDays)) {
			out = append(out, value.String(t.Format("2006-01-02")))
		}
		return value.Array(out), nil
	})
}
