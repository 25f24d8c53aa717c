package main

import (
	"os"

	"github.com/emrgen/planmark/internal/server"
)

func main() {
	httpPort := os.Getenv("HTTP_PORT")
	if httpPort == "" {
		httpPort = "4021"
	}

	err := server.Start(httpPort)
	if err != nil {
		return
	}
}
