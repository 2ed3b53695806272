package main

import "heybuddy/cmd/client/cmd"

func main() {
	cmd.Execute()
}
