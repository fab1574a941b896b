package main

import "github.com/mpapenbr/iracelog-strategy/cmd"

func main() {
	cmd.Execute()
}
