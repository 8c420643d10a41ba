package main

import "libmanage/cmd/libctl/command"

func main() {
	command.Execute()
}
