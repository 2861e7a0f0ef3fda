package main

import (
	"context"

	"github.com/faizmokh/gaji/internal/cli"
)

func main() {
	cli.Main(context.Background())
}
