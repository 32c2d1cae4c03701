package main

import "github.com/atruong7-bot/event-search/cmd/event-search/cmd"

func main() {
	cmd.Execute()
}
