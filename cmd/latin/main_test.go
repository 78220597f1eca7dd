package main

import (
	"testing"

	_ "github.com/laporan-latin/laporan-latin/internal/testing/guard"
)

func TestMainSkipsStartupInTestMode(t *testing.T) {
	main()
}
