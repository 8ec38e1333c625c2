package bench

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramsynth/guardsynth/architecture"
)

func TestExecutionWritesOneRowPerRunAndStopsSeriesOnFailure(t *testing.T) {
	item := ConfigItem{
		Filename:     "mutex.ltl",
		GuardType:    architecture.Conjunctive,
		Instances:    [][]int{{1}},
		MinBounds:    []int{1},
		MaxIncrement: 1,
		Settings:     []string{"no-labels", "no-scc", "no-test", "no-dot"},
		RunCount:     3,
	}

	execution := Execution{
		Items:       []ConfigItem{item},
		Runner:      Runner{Command: shellCommand(`exit 9`)},
		CSVPath:     filepath.Join(t.TempDir(), "results.csv"),
		Concurrency: 1,
		Logger:      zerolog.Nop(),
	}

	require.NoError(t, execution.Execute(context.Background()))

	rows := readCSV(t, execution.CSVPath)
	require.Len(t, rows, 1) // the series stopped after its first (invalid) run
	assert.Equal(t, "1", rows[0][0])
	assert.Equal(t, "0", rows[0][1])
	assert.Equal(t, "exit code: 9", rows[0][14])
}

func TestExecutionRunsAllRunsWhenEveryRunCompletes(t *testing.T) {
	item := ConfigItem{
		Filename:     "mutex.ltl",
		GuardType:    architecture.Conjunctive,
		Instances:    [][]int{{1, 2}},
		MinBounds:    []int{1},
		MaxIncrement: 1,
		Settings:     []string{"no-labels", "no-scc", "no-test", "no-dot"},
		RunCount:     2,
	}

	execution := Execution{
		Items:       []ConfigItem{item},
		Runner:      Runner{Command: shellCommand(`echo '{"satisfiable":true,"bound":[1],"runtime_seconds":0.01}'`)},
		CSVPath:     filepath.Join(t.TempDir(), "results.csv"),
		Concurrency: 2,
		Logger:      zerolog.Nop(),
	}

	require.NoError(t, execution.Execute(context.Background()))

	rows := readCSV(t, execution.CSVPath)
	// 2 instance-count combinations * 2 runs each = 4 rows.
	assert.Len(t, rows, 4)
	for _, row := range rows {
		assert.Equal(t, "sat", row[12])
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
