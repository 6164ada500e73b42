package continuity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStepChainAllSucceed(t *testing.T) {
	var ran []string
	err := New().
		Step("one", func() error { ran = append(ran, "one"); return nil }).
		Step("two", func() error { ran = append(ran, "two"); return nil }).
		Err()
	require.NoError(t, err)
	require.Equal(t, []string{"one", "two"}, ran)
}

func TestStepChainStopsAtFirstFailure(t *testing.T) {
	var ran []string
	sentinel := errors.New("boom")
	err := New().
		Step("one", func() error { ran = append(ran, "one"); return nil }).
		Step("two", func() error { ran = append(ran, "two"); return sentinel }).
		Step("three", func() error { ran = append(ran, "three"); return nil }).
		Err()
	require.Error(t, err)
	require.Equal(t, []string{"one", "two"}, ran)
	require.Contains(t, err.Error(), "two")
	require.True(t, errors.Is(err, sentinel))
}

func TestStepChainCheckFoldsBatch(t *testing.T) {
	e1 := errors.New("e1")
	e2 := errors.New("e2")
	err := New().Check("validate", nil, e1, e2).Err()
	require.Error(t, err)
	require.Contains(t, err.Error(), "multiple steps failed")
}
