/*usr/bin/env go run "$0" "$@" ; exit #*/

// MISE description="Generate the OpenAPI document of the demo gateway"

//go:build ignore

package main

import (
	"os"

	"github.com/bitfield/script"
)

func main() {
	_, err := script.Exec("go run ./cmd/gwdemo openapi").Stdout()
	if err != nil {
		os.Exit(1)
	}
}
