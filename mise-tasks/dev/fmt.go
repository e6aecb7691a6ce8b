/*usr/bin/env go run "$0" "$@" ; exit #*/

// MISE description="Format Go code and tidy go.mod"

//go:build ignore

package main

import (
	"os"

	"github.com/bitfield/script"
)

func main() {
	for _, cmd := range []string{"golangci-lint fmt ./...", "go mod tidy"} {
		if _, err := script.Exec(cmd).Stdout(); err != nil {
			os.Exit(1)
		}
	}
}
