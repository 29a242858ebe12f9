// Package main is the entry point for the hoopstats CLI, which records basketball box scores
// and keeps team totals and player histories consistent.
package main

import "github.com/pable/go-hoops-stats/cmd"

func main() {
	cmd.Execute()
}
