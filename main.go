package main

import "pr-radar/cmd"

func main() {
	cmd.Execute()
}
