package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWaitForStop_SignalIsCleanStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, waitForStop(ctx, make(chan error)))
}

func TestWaitForStop_ReturnsServerFailure(t *testing.T) {
	bindErr := errors.New("listen tcp :8080: bind: address already in use")
	serverErr := make(chan error, 1)
	serverErr <- bindErr

	assert.ErrorIs(t, waitForStop(context.Background(), serverErr), bindErr)
}
