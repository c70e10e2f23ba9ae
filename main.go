package main

import "github.com/preplate/preplate/cmd"

func main() {
	cmd.Execute()
}
