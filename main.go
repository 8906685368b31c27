package main

import "rehab/internal/cli"

func main() {
	cli.Execute()
}
