// Package guard enables test mode for binaries that import it, so mains
// exit before dialling Redis, Postgres or the traffic API.
package guard

import "os"

func init() {
	if os.Getenv("LATIN_TEST_MODE") == "" {
		_ = os.Setenv("LATIN_TEST_MODE", "1")
	}
}
