package config

import (
	"strconv"
	"strings"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "VFLOW_"

// sections lists the environment-addressable config sections.
var sections = []string{"viewport", "layout", "highlight", "log"}

// envOverrides collects VFLOW_<SECTION>_<KEY>=value entries into a
// settings map, e.g. VFLOW_LAYOUT_TAB_WIDTH=8 sets layout.tab_width.
// Variables naming an unknown section are ignored.
func envOverrides(environ []string) map[string]any {
	out := make(map[string]any)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		rest := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
		section, key, ok := strings.Cut(rest, "_")
		if !ok || key == "" || !knownSection(section) {
			continue
		}
		setByPath(out, section+"."+key, parseValue(value))
	}
	return out
}

func knownSection(name string) bool {
	for _, s := range sections {
		if s == name {
			return true
		}
	}
	return false
}

// parseValue converts an environment string to a typed value. Numbers are
// tried before boolean words, so "1" stays an integer.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	return s
}

// setByPath sets a dotted path in data, creating intermediate maps.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
