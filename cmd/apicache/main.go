package main

import (
	"os"

	"github.com/briangreenhill/apicache/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
