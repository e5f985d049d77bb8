package main

import (
	"context"
	"os"

	"github.com/okian/tastebase/pkg/logger"
)

func main() {
	if err := logger.Init(logger.WithOutput(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logger.Get().Error(context.Background(), "command execution failed", logger.Error(err))
		os.Exit(1)
	}
}
