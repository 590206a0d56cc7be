package main

import "github.com/keibalab/oddsget/cmd/oddsget/cmd"

func main() {
	cmd.Execute()
}
