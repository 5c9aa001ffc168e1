package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kei-test/mega/internal/bootstrap"
)

func main() {
	if err := bootstrap.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "mega-server failed: %v\n", err)
		os.Exit(1)
	}
}
