package app

import (
	"os"
	"strconv"
)

// TestModeEnv, when set to a true value, makes the binaries exit before
// touching Redis, Postgres or the network. CI smoke-runs the binaries with it.
const TestModeEnv = "PHARMACY_TEST_MODE"

// InTestMode reports whether TestModeEnv is set to a true value.
func InTestMode() bool {
	on, err := strconv.ParseBool(os.Getenv(TestModeEnv))
	return err == nil && on
}
