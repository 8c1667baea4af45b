package main

import "github.com/karolswdev/gamescout/cmd"

func main() {
	cmd.Execute()
}
