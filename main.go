// Package main is the entry point for the etstats CLI tool, which imports
// Enemy Territory round stats files and scores stopwatch sessions.
package main

import "github.com/pable/go-et-stats/cmd"

func main() {
	cmd.Execute()
}
