package annotation

import (
	"github.com/roaldarbol/boris-clip/diag"
)

// parseAggregated parses a BORIS aggregated events export: one row per bout
// with explicit start and stop columns, no pairing state needed. A row with
// equal start and stop is a point event.
func parseAggregated(tbl *table, r diag.Reporter) (ParsedAnnotations, error) {
	colSubject, err := tbl.requireCol("Subject", "Subject")
	if err != nil {
		return ParsedAnnotations{}, err
	}
	colBehaviour, err := tbl.requireCol("Behavior", "Behavior", "Behaviour")
	if err != nil {
		return ParsedAnnotations{}, err
	}
	colStart, err := tbl.requireCol("Start (s)", "Start (s)", "Start(s)")
	if err != nil {
		return ParsedAnnotations{}, err
	}
	colStop, err := tbl.requireCol("Stop (s)", "Stop (s)", "Stop(s)")
	if err != nil {
		return ParsedAnnotations{}, err
	}

	ann := ParsedAnnotations{Format: FormatAggregated}
	ann.MediaFilename = tbl.firstMediaName(tbl.findCol("Media file path", "Media file name", "Media file"), r)
	ann.FPS = tbl.firstNumeric(tbl.findCol("FPS"), "FPS", r)
	ann.Duration = tbl.firstNumeric(tbl.findCol("Total length", "Duration"), "duration", r)

	for _, row := range tbl.rows {
		subject := cell(row, colSubject)
		behaviour := cell(row, colBehaviour)

		start, okStart := parseFloat(cell(row, colStart))
		stop, okStop := parseFloat(cell(row, colStop))
		if !okStart || !okStop {
			r.Warnf("skipping row with missing start/stop for (%q, %q)", subject, behaviour)
			continue
		}

		ann.Bouts = append(ann.Bouts, Bout{
			Subject:   subject,
			Behaviour: behaviour,
			Start:     start,
			Stop:      stop,
			IsPoint:   start == stop,
		})
	}

	return ann, nil
}
