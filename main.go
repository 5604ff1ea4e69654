package main

import (
	"os"

	"outreach/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
