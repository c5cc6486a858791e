package main

import "github.com/philipparndt/platebatch/internal/cmd"

func main() {
	cmd.Parse()
}
