package main

import "wprefix/cmd/wprefix/commands"

func main() {
	commands.Execute()
}
