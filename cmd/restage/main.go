package main

import "github.com/restage/restage/internal/cli"

func main() {
	cli.Execute()
}
