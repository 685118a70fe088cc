package main

import (
	"github.com/grantweston/google-ads-mcp-complete/internal/cli"
)

func main() {
	cli.Execute()
}
