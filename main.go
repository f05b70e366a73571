package main

import (
	"os"

	"github.com/expresCocina/Italia-atalear/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
