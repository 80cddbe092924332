package logging_test

import (
	"context"
	"testing"

	"github.com/yaklabco/gozx/internal/logging"
)

func TestWithLogger(t *testing.T) {
	t.Parallel()

	logger := logging.New("debug")
	ctx := logging.WithLogger(context.Background(), logger)

	if got := logging.FromContext(ctx); got != logger {
		t.Error("FromContext did not return the attached logger")
	}
}

func TestWithLoggerNilContext(t *testing.T) {
	t.Parallel()

	logger := logging.New("error")
	ctx := logging.WithLogger(nil, logger) //nolint:staticcheck // nil handling is part of the contract

	if got := logging.FromContext(ctx); got != logger {
		t.Error("FromContext did not return the attached logger")
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	t.Parallel()

	if got := logging.FromContext(context.Background()); got != logging.Default() {
		t.Error("FromContext without an attached logger should return the default")
	}
	if got := logging.FromContext(nil); got != logging.Default() { //nolint:staticcheck // nil handling is part of the contract
		t.Error("FromContext with a nil context should return the default")
	}
}
