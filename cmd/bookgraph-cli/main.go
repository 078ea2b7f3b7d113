package main

import "bookgraph/cmd/bookgraph-cli/cmd"

func main() {
	cmd.Execute()
}
