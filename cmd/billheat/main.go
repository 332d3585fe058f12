package main

import "github.com/emiliopalmerini/billheat/internal/cli"

func main() {
	cli.Execute()
}
