package main

import "github.com/chichamlab/chicham/cmd"

func main() {
	cmd.Execute()
}
