package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xtc/internal/core/domain"
)

func TestCommandError(t *testing.T) {
	failed := &domain.CommandError{Argv: []string{"/usr/bin/make", "all"}, ExitCode: 2}
	assert.ErrorIs(t, failed, domain.ErrCommandFailed)
	assert.NotErrorIs(t, failed, domain.ErrCommandTimedOut)
	assert.Equal(t, "make exited with status 2", failed.Message())

	timedOut := &domain.CommandError{Argv: []string{"configure"}, Timeout: time.Second, TimedOut: true}
	assert.ErrorIs(t, timedOut, domain.ErrCommandTimedOut)
	assert.Contains(t, timedOut.Error(), "did not finish within 1s")
}

func TestStageError(t *testing.T) {
	cause := &domain.CommandError{Argv: []string{"configure"}, TimedOut: true}
	err := error(&domain.StageError{Component: domain.ComponentGCCStage1, Stage: domain.StageConfigure, Err: cause})

	require.ErrorIs(t, err, domain.ErrCommandTimedOut)

	var stageErr *domain.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, domain.ComponentGCCStage1, stageErr.Component)
	assert.Equal(t, domain.StageConfigure, stageErr.Stage)
	assert.Equal(t, "GCC Stage 1: configure stage failed", stageErr.Message())

	var cmdErr *domain.CommandError
	require.True(t, errors.As(err, &cmdErr))
}
