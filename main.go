package main

import "github.com/agentmux/agentmux/cmd"

func main() {
	cmd.Execute()
}
