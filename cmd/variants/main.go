package main

import "github.com/goliatone/go-variants/internal/cli/cmd"

func main() {
	cmd.Execute()
}
