// Package bench implements the benchmark harness: it parses
// whitespace-separated benchmark configuration lines, expands each into
// the series of synthesis runs it describes, executes every run as a
// timed-out child process, and emits one CSV row per run.
package bench

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paramsynth/guardsynth/architecture"
)

// Flag names a benchmark config line's settings column carries, one
// per boolean harness option; NegatedFlag(name) is the flag's
// "disabled" spelling, e.g. "no-labels".
const (
	LabelFlag = "labels"
	TestFlag  = "test"
	SCCFlag   = "scc"
	DotFlag   = "dot"
)

// NegatedFlag returns name's disabled spelling.
func NegatedFlag(name string) string { return "no-" + name }

// ConfigItem is one parsed benchmark configuration line: a spec file to
// synthesize, the architecture guard regime to use, the per-template
// instance-count ranges and starting bound to sweep, an increment cap,
// the boolean settings in force, and how many times to repeat each
// resulting run (BenchmarkConfigItem).
type ConfigItem struct {
	Filename     string
	GuardType    architecture.GuardType
	Instances    [][]int
	MinBounds    []int
	MaxIncrement int
	Settings     []string
	RunCount     int
}

// SettingActive reports whether name is enabled, disabled, or absent
// from c's settings column (is_setting_active): present verbatim means
// enabled, present in its "no-"-prefixed form means disabled, and
// absent from both is a configuration error — every boolean flag must
// be stated explicitly one way or the other.
func (c ConfigItem) SettingActive(name string) (bool, error) {
	negated := NegatedFlag(name)
	for _, s := range c.Settings {
		if s == name {
			return true, nil
		}
		if s == negated {
			return false, nil
		}
	}
	return false, wrap("SettingActive", &SettingNotSpecifiedError{Name: name})
}

// ParseConfigLine parses one line of a benchmark configuration file.
// Blank lines and lines starting with "#" return (nil, nil).
func ParseConfigLine(line string, lineNumber int, basedir string) (*ConfigItem, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	fields := strings.Fields(line)
	if len(fields) != 7 {
		return nil, wrap("ParseConfigLine", &InvalidConfigLineError{Line: lineNumber, Reason: "expected 7 whitespace-separated fields"})
	}
	filename, guardType, instances, bounds, maxIncrement, settings, runCount := fields[0], fields[1], fields[2], fields[3], fields[4], fields[5], fields[6]

	item := &ConfigItem{}
	if filepath.IsAbs(filename) {
		item.Filename = filename
	} else {
		item.Filename = filepath.Join(basedir, filename)
	}

	gt, err := architecture.ParseGuardType(guardType)
	if err != nil {
		return nil, wrap("ParseConfigLine", err)
	}
	item.GuardType = gt

	item.Instances, err = parseIntRangeList(instances)
	if err != nil {
		return nil, wrap("ParseConfigLine", err)
	}
	item.MinBounds, err = parseIntList(bounds)
	if err != nil {
		return nil, wrap("ParseConfigLine", err)
	}

	item.MaxIncrement, err = strconv.Atoi(maxIncrement)
	if err != nil {
		return nil, wrap("ParseConfigLine", &InvalidConfigLineError{Line: lineNumber, Reason: "max_increment is not an integer: " + maxIncrement})
	}
	item.Settings = strings.Split(settings, ",")

	item.RunCount, err = strconv.Atoi(runCount)
	if err != nil {
		return nil, wrap("ParseConfigLine", &InvalidConfigLineError{Line: lineNumber, Reason: "runs is not an integer: " + runCount})
	}

	return item, nil
}

// ParseConfig parses every line r yields, skipping blanks and comments.
func ParseConfig(r io.Reader, basedir string) ([]ConfigItem, error) {
	scanner := bufio.NewScanner(r)
	var items []ConfigItem
	for lineNumber := 0; scanner.Scan(); lineNumber++ {
		item, err := ParseConfigLine(scanner.Text(), lineNumber, basedir)
		if err != nil {
			return nil, wrap("ParseConfig", err)
		}
		if item != nil {
			items = append(items, *item)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, wrap("ParseConfig", err)
	}
	return items, nil
}

// ReadConfigFile opens configPath and parses it, resolving relative
// spec filenames against its containing directory.
func ReadConfigFile(configPath string) ([]ConfigItem, error) {
	f, err := os.Open(configPath)
	if err != nil {
		return nil, wrap("ReadConfigFile", err)
	}
	defer f.Close()

	return ParseConfig(f, filepath.Dir(configPath))
}

// parseIntRangeList parses a comma-separated list of "lo:hi" ranges,
// one entry per template, each expanding to the inclusive []int{lo,
// ..., hi} (_get_int_range_list).
func parseIntRangeList(value string) ([][]int, error) {
	parts := strings.Split(value, ",")
	out := make([][]int, len(parts))
	for i, p := range parts {
		lo, hi, ok := strings.Cut(p, ":")
		if !ok {
			return nil, &InvalidRangeError{Value: value}
		}
		loN, err := strconv.Atoi(lo)
		if err != nil {
			return nil, &InvalidRangeError{Value: value}
		}
		hiN, err := strconv.Atoi(hi)
		if err != nil {
			return nil, &InvalidRangeError{Value: value}
		}
		if hiN < loN {
			return nil, &InvalidRangeError{Value: value}
		}
		r := make([]int, 0, hiN-loN+1)
		for v := loN; v <= hiN; v++ {
			r = append(r, v)
		}
		out[i] = r
	}
	return out, nil
}

// parseIntList parses a comma-separated list of plain integers
// (_get_int_list).
func parseIntList(value string) ([]int, error) {
	parts := strings.Split(value, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, &InvalidRangeError{Value: value}
		}
		out[i] = n
	}
	return out, nil
}
