package config

import (
	"reflect"
	"strings"
	"unicode"

	"tidal-client/types"
)

// ConfigComment renders cfg as TOML with every value line commented out,
// the shape written into a fresh repo so defaults stay visible but inactive.
func ConfigComment(t interface{}) ([]byte, error) {
	return ConfigUpdate(t, nil, true)
}

// ConfigUpdate renders cfgCur as TOML. With comment set, value lines that
// match the rendering of cfgDef are commented out; section headers never
// are. With a non-nil cfgDef the rendered output must parse back to cfgCur
// or the update is rejected.
func ConfigUpdate(cfgCur, cfgDef interface{}, comment bool) ([]byte, error) {
	var defStr string
	if cfgDef != nil {
		b, err := ClientBytes(cfgDef)
		if err != nil {
			return nil, err
		}
		defStr = string(b)
	}

	b, err := ClientBytes(cfgCur)
	if err != nil {
		return nil, err
	}
	curStr := string(b)

	if comment {
		// map of default value lines, so we can comment those out later
		defaults := map[string]struct{}{}
		for _, l := range strings.Split(defStr, "\n") {
			l = strings.TrimSpace(l)
			if len(l) == 0 || l[0] == '#' || l[0] == '[' {
				continue
			}
			defaults[l] = struct{}{}
		}

		var outLines []string
		for _, line := range strings.Split(curStr, "\n") {
			trimmed := strings.TrimSpace(line)

			// never comment sections
			if len(trimmed) > 0 && trimmed[0] == '[' {
				outLines = append(outLines, line)
				continue
			}

			pad := strings.Repeat(" ", len(line)-len(strings.TrimLeftFunc(line, unicode.IsSpace)))
			if _, found := defaults[trimmed]; (cfgDef == nil || found) && len(line) > 0 {
				line = pad + "#" + line[len(pad):]
			}
			outLines = append(outLines, line)
		}
		curStr = strings.Join(outLines, "\n")
	}

	// sanity-check that the rendered config parses the same way as the
	// current one
	if cfgDef != nil {
		def, ok := cfgDef.(*Client)
		if !ok {
			return nil, types.Wrapf(types.ErrInvalidConfig, "unexpected config type %T", cfgDef)
		}
		updated, err := FromReader(strings.NewReader(curStr), def)
		if err != nil {
			return nil, err
		}
		if !reflect.DeepEqual(cfgCur, updated) {
			return nil, types.Wrapf(types.ErrInvalidConfig, "updated config didn't match current config")
		}
	}

	return []byte(curStr), nil
}
