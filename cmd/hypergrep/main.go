package main

import "github.com/dl/hypergrep/internal/cli"

func main() {
	cli.Execute()
}
