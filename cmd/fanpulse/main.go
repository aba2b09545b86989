// Package main is the single-binary entrypoint for FanPulse.
package main

import "github.com/fanpulse/fanpulse/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
