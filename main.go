package main

import (
	"os"

	"github.com/zhitui/zhitui/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
