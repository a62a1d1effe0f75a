package main

import "github.com/soundstore/soundstore/cmd/soundstore/commands"

func main() {
	commands.Execute()
}
