package main

import (
	"github.com/geoffwhittington/devici-mcp/cmd"
)

func main() {
	cmd.Execute()
}
