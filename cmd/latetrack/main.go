package main

import (
	"fmt"
	"os"

	apperrors "latetrack/internal/errors"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(apperrors.ExitCode(err))
	}
}
