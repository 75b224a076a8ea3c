package main

import (
	"os"

	"github.com/voicenote/transcriber/cmd/voicenote/cli"
)

func main() {
	if err := cli.NewRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
