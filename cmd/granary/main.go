package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/granary/internal/config"
	"github.com/smallbiznis/granary/internal/logger"
	"github.com/smallbiznis/granary/internal/migration"
	"github.com/smallbiznis/granary/internal/server"
	"github.com/smallbiznis/granary/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,

		// Warehouse domains and HTTP surface
		server.Module,
		migration.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
