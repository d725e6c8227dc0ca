package main

import (
	"github.com/bookwise/bookwise/internal/clock"
	"github.com/bookwise/bookwise/internal/config"
	"github.com/bookwise/bookwise/internal/migration"
	"github.com/bookwise/bookwise/internal/observability"
	"github.com/bookwise/bookwise/internal/server"
	"github.com/bookwise/bookwise/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
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
