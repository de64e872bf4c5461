package main

import "github.com/msomdec/hbnb/internal/cli"

func main() {
	cli.Execute()
}
