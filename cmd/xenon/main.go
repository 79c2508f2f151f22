package main

import "github.com/lumenlimitless/xenon/cmd/xenon/commands"

func main() {
	commands.Execute()
}
