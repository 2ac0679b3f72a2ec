// Command viewer runs the scene viewer.
package main

import (
	"fmt"
	"os"

	"github.com/rgscene/viewer/internal/core/driver"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		if driver.IsConfigError(err) {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		}
	}
	os.Exit(driver.ExitCode(err))
}
