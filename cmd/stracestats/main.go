package main

import (
	"log"
	"os"

	"github.com/tee-vee/strace-parser/strace"
	"go.uber.org/zap"
)

func main() {
	prodLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to get logger: %v", err)
	}

	logger := prodLogger.Sugar()

	if len(os.Args) < 2 {
		logger.Fatalw("usage: stracestats <trace-file>")
	}

	tracePath := os.Args[1]

	buf, err := os.ReadFile(tracePath)
	if err != nil {
		logger.Fatalw("failed to read trace", "file", tracePath, "err", err)
	}

	parser := strace.NewParser(logger, nil)

	byPid := parser.Parse(string(buf))
	summaries := strace.Aggregate(byPid)

	if err := strace.WriteSummaries(os.Stdout, summaries); err != nil {
		logger.Fatalw("failed to write summaries", "err", err)
	}
}
