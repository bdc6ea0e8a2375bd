// cmd/moveboard/main.go
package main

import (
	"context"

	"github.com/dalemusser/waffle/app"

	"github.com/movehq/moveboard/internal/app/bootstrap"
)

func main() {
	app.Run(context.Background(), bootstrap.Hooks)
}
