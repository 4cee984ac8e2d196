package main

import (
	"os"

	"github.com/meysamhadeli/promptcat/cmd"
	"github.com/meysamhadeli/promptcat/logging"
)

func main() {
	code := cmd.Execute()
	logging.Sync()
	os.Exit(code)
}
