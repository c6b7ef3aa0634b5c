package main

import (
	"log"

	"github.com/spigell/interview-coach/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
