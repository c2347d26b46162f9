package main

import (
	cmd "github.com/rxhtt/morrigan/cmd/morrigan"
	"github.com/rxhtt/morrigan/internal"
)

var log = internal.GetLogger()

func main() {
	log.Info("Starting morrigan")
	cmd.Execute()
}
