// Package main is the entry point of the egosmmu command.
package main

import "github.com/sarchlab/egosmmu/egosmmu/cmd"

func main() {
	cmd.Execute()
}
