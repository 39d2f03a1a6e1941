package main

import "github.com/codervisor/codehist/cmd"

func main() {
	cmd.Execute()
}
