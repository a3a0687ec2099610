package main

import (
	"os"

	"github.com/use-agent/hustings/models"
	"github.com/use-agent/hustings/runner"
)

func main() {
	os.Exit(runner.Execute(models.Y2024))
}
