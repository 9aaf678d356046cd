package main

import "agentshell/internal/cli"

func main() {
	cli.Execute()
}
