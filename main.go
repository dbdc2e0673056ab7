// Package main is the entry point for the cmdrstats CLI tool, which tracks
// multiplayer commander games and computes win-rate statistics.
package main

import "github.com/marzoli/go-cmdr-stats/cmd"

func main() {
	cmd.Execute()
}
