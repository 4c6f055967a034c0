package main

import "entity-store/cmd"

func main() {
	cmd.Execute()
}
