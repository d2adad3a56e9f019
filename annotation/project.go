package annotation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/roaldarbol/boris-clip/diag"
)

// projectFile mirrors the parts of a .boris project (JSON) we consume.
// Recent BORIS versions store the ethogram under "behaviors_conf"; older
// ones used "ethogram".
type projectFile struct {
	Ethogram      map[string]ethogramEntry      `json:"ethogram"`
	BehaviorsConf map[string]ethogramEntry      `json:"behaviors_conf"`
	Observations  map[string]projectObservation `json:"observations"`
}

type ethogramEntry struct {
	Name string `json:"name"`
	Type string `json:"type"` // "State event" or "Point event"
}

type projectObservation struct {
	File          json.RawMessage `json:"file"`
	MediaFileName json.RawMessage `json:"media_file_name"`
	MediaInfo     json.RawMessage `json:"media_info"`
	Events        [][]any         `json:"events"`
}

// parseProject parses a .boris project file. Every observation yields its own
// ParsedAnnotations; observations are never merged.
func parseProject(path string, r diag.Reporter) ([]ParsedAnnotations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}

	var project projectFile
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("could not parse %s as a BORIS project: %w", filepath.Base(path), err)
	}

	// Behaviour name -> declared type, from whichever ethogram key is present.
	ethogram := make(map[string]string)
	for _, entries := range []map[string]ethogramEntry{project.Ethogram, project.BehaviorsConf} {
		for _, e := range entries {
			name := strings.TrimSpace(e.Name)
			if name != "" {
				ethogram[name] = strings.TrimSpace(e.Type)
			}
		}
	}

	if len(project.Observations) == 0 {
		return nil, fmt.Errorf("no observations found in %s", filepath.Base(path))
	}

	obsIDs := make([]string, 0, len(project.Observations))
	for id := range project.Observations {
		obsIDs = append(obsIDs, id)
	}
	sort.Strings(obsIDs)

	sets := make([]ParsedAnnotations, 0, len(obsIDs))
	for _, id := range obsIDs {
		sets = append(sets, parseObservation(id, project.Observations[id], ethogram, r))
	}
	return sets, nil
}

// parseObservation converts one observation's raw event list into bouts,
// using the ethogram for point/state classification. State events toggle: the
// first occurrence of a (subject, behaviour) opens a bout, the next closes it.
func parseObservation(id string, obs projectObservation, ethogram map[string]string, r diag.Reporter) ParsedAnnotations {
	ann := ParsedAnnotations{ObsID: id, Format: FormatProject}

	if path := mediaFromRaw(obs.File); path != "" {
		ann.MediaPath = path
		ann.MediaFilename = filepath.Base(path)
	} else if path := mediaFromRaw(obs.MediaFileName); path != "" {
		ann.MediaPath = path
		ann.MediaFilename = filepath.Base(path)
	}
	ann.FPS, ann.Duration = mediaMetadata(obs.MediaInfo)

	// Events are [time, subject, behaviour, modifier, comment, ...].
	type projEvent struct {
		t                  float64
		subject, behaviour string
	}
	events := make([]projEvent, 0, len(obs.Events))
	for _, raw := range obs.Events {
		if len(raw) < 3 {
			continue
		}
		t, ok := toFloat(raw[0])
		if !ok {
			r.Warnf("[%s] skipping event with unparseable timestamp %v", id, raw[0])
			continue
		}
		events = append(events, projEvent{
			t:         t,
			subject:   strings.TrimSpace(toString(raw[1])),
			behaviour: strings.TrimSpace(toString(raw[2])),
		})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].t < events[j].t })

	open := newOpenStates()
	for _, ev := range events {
		// A behaviour missing from the ethogram is treated as a state event.
		if strings.Contains(strings.ToLower(ethogram[ev.behaviour]), "point") {
			ann.Bouts = append(ann.Bouts, Bout{
				Subject:   ev.subject,
				Behaviour: ev.behaviour,
				Start:     ev.t,
				Stop:      ev.t,
				IsPoint:   true,
			})
			continue
		}

		key := boutKey{subject: ev.subject, behaviour: ev.behaviour}
		if start, ok := open.close(key); ok {
			ann.Bouts = append(ann.Bouts, Bout{
				Subject:   ev.subject,
				Behaviour: ev.behaviour,
				Start:     start,
				Stop:      ev.t,
			})
		} else {
			open.open(key, ev.t)
		}
	}
	open.warnUnclosed(id, r)

	return ann
}

// mediaFromRaw extracts a media path from either the per-player file mapping
// ({"1": ["/path.mp4"]}) or a flat string field. The first non-empty entry
// wins; player keys are visited in sorted order so the choice is stable.
func mediaFromRaw(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var flat string
	if err := json.Unmarshal(raw, &flat); err == nil {
		return strings.TrimSpace(flat)
	}

	var players map[string]any
	if err := json.Unmarshal(raw, &players); err != nil {
		return ""
	}
	keys := make([]string, 0, len(players))
	for k := range players {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := players[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case []any:
			for _, item := range v {
				if s := strings.TrimSpace(toString(item)); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// mediaMetadata walks the nested per-player media_info structure and returns
// the first parseable fps and duration values found.
func mediaMetadata(raw json.RawMessage) (fps, duration float64) {
	if len(raw) == 0 {
		return 0, 0
	}
	var info map[string]any
	if err := json.Unmarshal(raw, &info); err != nil {
		return 0, 0
	}

	for _, playerKey := range sortedKeys(info) {
		player, ok := info[playerKey].(map[string]any)
		if !ok {
			continue
		}
		for _, fileKey := range sortedKeys(player) {
			file, ok := player[fileKey].(map[string]any)
			if !ok {
				continue
			}
			if fps == 0 {
				if v, ok := toFloat(file["fps"]); ok {
					fps = v
				}
			}
			if duration == 0 {
				if v, ok := toFloat(file["duration"]); ok {
					duration = v
				}
			}
			if fps != 0 && duration != 0 {
				return fps, duration
			}
		}
	}
	return fps, duration
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// toFloat converts a decoded JSON value to a float64. BORIS writes numbers
// both as JSON numbers and as decimal strings.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", x)
	}
}
