package main

import (
	"log"
	"os"

	"github.com/kasozi/gpatrack/core"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	if err := newRootCmd(conf).Execute(); err != nil {
		logger.Printf("\nerror: %s\n", err)
		os.Exit(1)
	}
}
