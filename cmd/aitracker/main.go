package main

import (
	"os"

	"aitracker/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
