package main

import "studytour/cmd/cli/command"

func main() {
	command.Execute()
}
