package main

import (
	"github.com/expoprize/prizewheel-go/internal/cli"
)

func main() {
	cli.Execute()
}
