package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramsynth/guardsynth/architecture"
)

func sampleItem() ConfigItem {
	return ConfigItem{
		Filename:     "mutex.ltl",
		GuardType:    architecture.Conjunctive,
		Instances:    [][]int{{1, 2}},
		MinBounds:    []int{2},
		MaxIncrement: 10,
		Settings:     []string{"labels", "no-scc", "no-test", "dot"},
		RunCount:     3,
	}
}

func TestRequestsForExpandsInstanceCombinationsAndNumbersSequentially(t *testing.T) {
	series, err := requestsFor(sampleItem(), 5, "/out")
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, []int{1}, series[0].template.InstanceCount)
	assert.Equal(t, 5, series[0].template.BenchmarkIndex)
	assert.Equal(t, []int{2}, series[1].template.InstanceCount)
	assert.Equal(t, 6, series[1].template.BenchmarkIndex)

	for _, s := range series {
		assert.Equal(t, 3, s.runCount)
		assert.True(t, s.template.LabelGuards)
		assert.False(t, s.template.SCC)
		assert.False(t, s.template.TestMode)
		assert.True(t, s.template.SaveDot)
	}
}

func TestRequestSeriesRequestSetsRunIndex(t *testing.T) {
	series, err := requestsFor(sampleItem(), 1, "/out")
	require.NoError(t, err)

	r0 := series[0].request(0)
	r2 := series[0].request(2)
	assert.Equal(t, 0, r0.RunIndex)
	assert.Equal(t, 2, r2.RunIndex)
	assert.Equal(t, r0.BenchmarkIndex, r2.BenchmarkIndex)
}

func TestRequestDotFilepathUsesSpecBasenameAndIndices(t *testing.T) {
	r := Request{SpecFilepath: "/specs/mutex.ltl", DotDirectory: "/out", BenchmarkIndex: 3, RunIndex: 1}
	assert.Equal(t, "/out/mutex_3_1.dot", r.DotFilepath())
}

func TestRequestsForRejectsMissingSetting(t *testing.T) {
	item := sampleItem()
	item.Settings = []string{"labels", "no-scc", "no-test"} // dot flag unspecified
	_, err := requestsFor(item, 1, "/out")
	var notSpecified *SettingNotSpecifiedError
	require.ErrorAs(t, err, &notSpecified)
}
