package signal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paramsynth/guardsynth/signal"
)

func TestCanonicalForms(t *testing.T) {
	assert.Equal(t, "r", signal.New("r").String())
	assert.Equal(t, "r_0", signal.NewTemplate("r", 0).String())
	assert.Equal(t, "r_0_1", signal.NewInstance("r", 0, 1).String())
	assert.Equal(t, "r_0_j", signal.NewQuantifiedTemplate("r", 0, "j").String())
	assert.Equal(t, "is_scheduled_0_j", signal.NewSchedulerPlaceholder(0, "j").String())
}

func TestEqualIsStructuralNotIdentity(t *testing.T) {
	a := signal.NewInstance("g", 0, 1)
	b := signal.NewInstance("g", 0, 1)
	assert.True(t, signal.Equal(a, b))
	assert.NotSame(t, &a, &b)
}

func TestSetDeduplicatesByCanonicalForm(t *testing.T) {
	s := signal.NewSet()
	s.Add(signal.NewInstance("g", 0, 1))
	s.Add(signal.NewInstance("g", 0, 1))
	s.Add(signal.NewInstance("g", 0, 2))
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(signal.NewInstance("g", 0, 1)))
}

func TestSetSliceIsSortedDeterministically(t *testing.T) {
	s := signal.NewSet()
	s.Add(signal.NewInstance("g", 0, 2))
	s.Add(signal.NewInstance("g", 0, 1))
	got := s.Slice()
	assert.Equal(t, []string{"g_0_1", "g_0_2"}, []string{got[0].String(), got[1].String()})
}
