//go:build cli
// +build cli

package main

import (
	"inventory.GO/cmd"
	"inventory.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
