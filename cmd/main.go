// Package main enables pingtcp to execute as a CLI tool
package main

import (
	"os"

	"github.com/pingtcp/pingtcp/internal/app"
)

func main() {
	os.Exit(app.Run())
}
