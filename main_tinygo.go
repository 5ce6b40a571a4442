//go:build tinygo && baremetal

package main

import (
	"context"

	"ember/app"
	"ember/hal"
	"ember/internal/config"
)

func main() {
	cfg := config.Default()
	cfg.Log.Console = true

	b := hal.New()
	sys, err := app.Boot(b, cfg)
	if err != nil {
		b.Logger().WriteLineString("boot: " + err.Error())
		select {}
	}
	b.Start(cfg.Host.Hz)
	if err := sys.Run(context.Background()); err != nil {
		b.Logger().WriteLineString(err.Error())
	}
	select {}
}
