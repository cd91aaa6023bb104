package main

import "github.com/qodex-ai/apimesh/internal/cli"

func main() {
	cli.Execute()
}
