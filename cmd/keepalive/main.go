package main

import (
	"context"
	"os"

	"github.com/kbukum/keepalive/cmd/keepalive/cmd"
	"github.com/kbukum/keepalive/logger"
)

func main() {
	err := cmd.NewRootCommand().ExecuteContext(context.Background())
	if err != nil {
		// The configured logger may not exist yet, so report through the
		// environment-only one.
		logger.NewFromEnv("keepalive").Error("keepalive failed", logger.ErrorFields("run", err))
	}
	os.Exit(cmd.ExitCode(err))
}
