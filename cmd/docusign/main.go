package main

import (
	"os"
	"path/filepath"

	"github.com/hashicorp-forge/docusign-adapter/internal/cmd"
)

func main() {
	args := append([]string{filepath.Base(os.Args[0])}, os.Args[1:]...)
	os.Exit(cmd.Main(args))
}
