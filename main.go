// Package main is the entry point for the SpendWise personal finance bot.
package main

import "gitlab.com/yelinaung/spendwise/internal/cli"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Execute(cli.BuildInfo{Version: version, Commit: commit, Date: date})
}
