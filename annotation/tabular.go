package annotation

import (
	"sort"
	"strings"

	"github.com/roaldarbol/boris-clip/diag"
)

// boutKey identifies an open state event while pairing START/STOP rows.
type boutKey struct {
	subject   string
	behaviour string
}

// openStates tracks pending START rows in insertion order, so end-of-stream
// warnings come out deterministically.
type openStates struct {
	starts map[boutKey]float64
	order  []boutKey
}

func newOpenStates() *openStates {
	return &openStates{starts: make(map[boutKey]float64)}
}

func (o *openStates) open(k boutKey, t float64) (prev float64, already bool) {
	prev, already = o.starts[k]
	if !already {
		o.order = append(o.order, k)
	}
	o.starts[k] = t
	return prev, already
}

func (o *openStates) close(k boutKey) (float64, bool) {
	t, ok := o.starts[k]
	if !ok {
		return 0, false
	}
	delete(o.starts, k)
	for i, key := range o.order {
		if key == k {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	return t, true
}

// warnUnclosed reports every START still open at end of stream.
func (o *openStates) warnUnclosed(obsID string, r diag.Reporter) {
	prefix := ""
	if obsID != "" {
		prefix = "[" + obsID + "] "
	}
	for _, k := range o.order {
		r.Warnf("%sstate event (%q, %q) opened at t=%.3fs was never closed; skipping",
			prefix, k.subject, k.behaviour, o.starts[k])
	}
}

// timedRow is a data row with its parsed timestamp, ready for sorting.
type timedRow struct {
	t   float64
	row []string
}

// parseTabular parses a BORIS tabular events export: one row per status
// transition, paired into bouts by an open/close state machine keyed on
// (subject, behaviour).
func parseTabular(tbl *table, r diag.Reporter) (ParsedAnnotations, error) {
	colTime, err := tbl.requireCol("Time", "Time")
	if err != nil {
		return ParsedAnnotations{}, err
	}
	colSubject, err := tbl.requireCol("Subject", "Subject")
	if err != nil {
		return ParsedAnnotations{}, err
	}
	colBehaviour, err := tbl.requireCol("Behavior", "Behavior", "Behaviour")
	if err != nil {
		return ParsedAnnotations{}, err
	}
	colStatus, err := tbl.requireCol("Status", "Status", "Behavior type", "Behaviour type")
	if err != nil {
		return ParsedAnnotations{}, err
	}

	ann := ParsedAnnotations{Format: FormatTabular}
	ann.MediaFilename = tbl.firstMediaName(tbl.findCol("Media file path", "Media file name", "Media file"), r)
	ann.FPS = tbl.firstNumeric(tbl.findCol("FPS"), "FPS", r)
	ann.Duration = tbl.firstNumeric(tbl.findCol("Total length", "Duration"), "duration", r)

	// START/STOP pairing is order-sensitive, so rows are processed in time
	// order regardless of how the export was sorted. Ties keep row order.
	timed := make([]timedRow, 0, len(tbl.rows))
	for _, row := range tbl.rows {
		t, ok := parseFloat(cell(row, colTime))
		if !ok {
			r.Warnf("skipping row with missing or unparseable time: %q", cell(row, colTime))
			continue
		}
		timed = append(timed, timedRow{t: t, row: row})
	}
	sort.SliceStable(timed, func(i, j int) bool { return timed[i].t < timed[j].t })

	open := newOpenStates()
	for _, tr := range timed {
		subject := cell(tr.row, colSubject)
		behaviour := cell(tr.row, colBehaviour)
		status := strings.ToUpper(cell(tr.row, colStatus))
		key := boutKey{subject: subject, behaviour: behaviour}

		switch status {
		case "START":
			if prev, already := open.open(key, tr.t); already {
				r.Warnf("START for (%q, %q) at t=%.3fs before the START at t=%.3fs was closed; "+
					"discarding the earlier one", subject, behaviour, tr.t, prev)
			}
		case "STOP":
			start, ok := open.close(key)
			if !ok {
				r.Warnf("STOP for (%q, %q) at t=%.3fs with no matching START; skipping",
					subject, behaviour, tr.t)
				continue
			}
			ann.Bouts = append(ann.Bouts, Bout{
				Subject:   subject,
				Behaviour: behaviour,
				Start:     start,
				Stop:      tr.t,
			})
		case "POINT", "PUNCTUAL":
			ann.Bouts = append(ann.Bouts, Bout{
				Subject:   subject,
				Behaviour: behaviour,
				Start:     tr.t,
				Stop:      tr.t,
				IsPoint:   true,
			})
		default:
			r.Warnf("unknown event status %q at t=%.3fs; skipping row", status, tr.t)
		}
	}
	open.warnUnclosed("", r)

	return ann, nil
}
