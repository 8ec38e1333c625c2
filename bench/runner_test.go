package bench

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func shellCommand(script string) CommandFunc {
	return func(ctx context.Context, req Request) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", script)
	}
}

func TestRunnerRunCompletedParsesTrailingJSONLine(t *testing.T) {
	r := Runner{Command: shellCommand(`echo 'noise'; echo '{"satisfiable":true,"bound":[2,3],"runtime_seconds":0.25}'`)}

	result := r.Run(context.Background(), Request{})
	assert.Equal(t, Completed, result.Outcome)
	assert.True(t, result.Satisfiable)
	assert.Equal(t, []int{2, 3}, result.FinalBound)
}

func TestRunnerRunUnsatisfiableReport(t *testing.T) {
	r := Runner{Command: shellCommand(`echo '{"satisfiable":false,"bound":[1],"runtime_seconds":0.1}'`)}

	result := r.Run(context.Background(), Request{})
	assert.Equal(t, Completed, result.Outcome)
	assert.False(t, result.Satisfiable)
}

func TestRunnerRunTimeoutKillsChildProcess(t *testing.T) {
	r := Runner{Command: shellCommand(`sleep 2`), Timeout: 30 * time.Millisecond}

	result := r.Run(context.Background(), Request{})
	assert.Equal(t, Timeout, result.Outcome)
}

func TestRunnerRunInvalidExitNonZeroCode(t *testing.T) {
	r := Runner{Command: shellCommand(`exit 7`)}

	result := r.Run(context.Background(), Request{})
	assert.Equal(t, InvalidExit, result.Outcome)
	assert.Equal(t, 7, result.ExitCode)
}

func TestRunnerRunInvalidExitUnparseableOutput(t *testing.T) {
	r := Runner{Command: shellCommand(`echo 'not json'`)}

	result := r.Run(context.Background(), Request{})
	assert.Equal(t, InvalidExit, result.Outcome)
	assert.NotEmpty(t, result.Description)
}
