package bench

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/paramsynth/guardsynth/architecture"
)

// Request is one synthesis run to execute: a resolved instance count
// and starting bound drawn from a ConfigItem's sweep, plus the run's
// position within its benchmark and its repeat index
// (BenchmarkTestRequest).
type Request struct {
	SpecFilepath string
	GuardType    architecture.GuardType
	InstanceCount []int
	MinBound     []int
	MaxIncrement int

	LabelGuards bool
	SCC         bool
	TestMode    bool
	SaveDot     bool
	DotDirectory string

	BenchmarkIndex int
	RunIndex       int
}

// dotName is the spec file's base name without extension, used as the
// synthesis problem's display name (dot_name).
func (r Request) dotName() string {
	base := filepath.Base(r.SpecFilepath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DotFilepath is where this request's solution graph, if any, is
// written (dot_filepath).
func (r Request) DotFilepath() string {
	return filepath.Join(r.DotDirectory, fmt.Sprintf("%s_%d_%d.dot", r.dotName(), r.BenchmarkIndex, r.RunIndex))
}

// requestsFor expands item into the full series of Requests its
// instance-count and min-bound sweep describes, numbering them
// startIndex, startIndex+1, ... in itertools.product order over
// item.Instances (_execute_benchmark's instance_counts loop; the
// original's commented-out product(*min_bounds) call means min_bounds
// itself, not a further sweep over it, is used directly).
func requestsFor(item ConfigItem, startIndex int, dotDirectory string) ([]requestSeries, error) {
	saveDot, err := item.SettingActive(DotFlag)
	if err != nil {
		return nil, err
	}
	labelGuards, err := item.SettingActive(LabelFlag)
	if err != nil {
		return nil, err
	}
	scc, err := item.SettingActive(SCCFlag)
	if err != nil {
		return nil, err
	}
	testMode, err := item.SettingActive(TestFlag)
	if err != nil {
		return nil, err
	}

	var series []requestSeries
	for i, instanceCount := range product(item.Instances) {
		template := Request{
			SpecFilepath:   item.Filename,
			GuardType:      item.GuardType,
			InstanceCount:  instanceCount,
			MinBound:       item.MinBounds,
			MaxIncrement:   item.MaxIncrement,
			LabelGuards:    labelGuards,
			SCC:            scc,
			TestMode:       testMode,
			SaveDot:        saveDot,
			DotDirectory:   dotDirectory,
			BenchmarkIndex: startIndex + i,
		}
		series = append(series, requestSeries{template: template, runCount: item.RunCount})
	}
	return series, nil
}

// requestSeries is one (config item, instance-count combination) pair's
// run_count repeated runs, sharing everything but RunIndex.
type requestSeries struct {
	template Request
	runCount int
}

func (s requestSeries) request(runIndex int) Request {
	r := s.template
	r.RunIndex = runIndex
	return r
}
