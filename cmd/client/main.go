package main

import "clubmembers/cmd/client/cmd"

func main() {
	cmd.Execute()
}
