package main

import "github.com/devicelab-dev/screenmatch/pkg/cli"

func main() {
	cli.Execute()
}
