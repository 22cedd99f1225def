package main

import "github.com/mcoot/swisspairing/internal/cli"

func main() {
	cli.Execute()
}
