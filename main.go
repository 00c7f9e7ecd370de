package main

import "github.com/Romelium/mpatch/cmd"

func main() {
	cmd.Execute()
}
