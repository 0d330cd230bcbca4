package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/cocinamqb/stockdiario/internal/clock"
	"github.com/cocinamqb/stockdiario/internal/config"
	"github.com/cocinamqb/stockdiario/internal/migration"
	"github.com/cocinamqb/stockdiario/internal/observability"
	"github.com/cocinamqb/stockdiario/internal/scheduler"
	"github.com/cocinamqb/stockdiario/internal/server"
	"github.com/cocinamqb/stockdiario/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Domain modules come in through server.Module.
		server.Module,
		scheduler.Module,
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
