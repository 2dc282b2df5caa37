package main

import "github.com/mcoot/geochain/internal/cli"

func main() {
	cli.Execute()
}
