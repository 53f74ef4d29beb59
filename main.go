package main

import (
	"os"

	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
