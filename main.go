package main

import (
	"log"

	"github.com/muntasir-dev/MusicStream/cmd"
)

func main() {
	cmd.Execute()
	// If Execute() had a problem, Cobra would have called os.Exit.
	log.Println("Application command execution finished.")
}
