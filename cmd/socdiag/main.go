package main

import "github.com/panyam/socdiag/cmd/socdiag/commands"

func main() {
	commands.Execute()
}
