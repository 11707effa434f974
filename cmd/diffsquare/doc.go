// Package diffsquare provides the command-line interface for diffsquare. It
// configures subcommands (factor, batch, history, config, etc.), parses flags,
// and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/diffsquare/diffsquare/cmd/diffsquare"
//	func main() { diffsquare.Execute() }
package diffsquare
