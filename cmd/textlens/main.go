package main

import (
	"os"

	"github.com/bryanwahyu/textlens/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Log.Errorf("%v", err)
		os.Exit(1)
	}
}
