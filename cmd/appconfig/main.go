package main

import (
	"fmt"
	"os"

	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/cmd/appconfig/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
