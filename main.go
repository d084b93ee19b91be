package main

import (
	"context"

	"github.com/locvowork/stockcount/internal/bootstrap"
	"github.com/locvowork/stockcount/internal/logger"
)

func main() {
	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		panic(err)
	}

	if err := app.Run(); err != nil {
		logger.ErrorLog(ctx, "Server stopped", err)
	}
}
