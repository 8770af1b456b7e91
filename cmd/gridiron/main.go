package main

import "github.com/fortuna/gridiron/internal/cli"

func main() {
	cli.Execute()
}
