package main

import "github.com/mcoot/spellfight/internal/cli"

func main() {
	cli.Execute()
}
