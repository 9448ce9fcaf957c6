// Package main is the entry point for the lolmetrics CLI tool, which reads
// League of Legends match-timeline documents and computes per-player and
// per-team statistics.
package main

import "github.com/pable/go-lol-metrics/cmd"

func main() {
	cmd.Execute()
}
