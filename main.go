// Package main is the entry point for tunedeck.
package main

import (
	"github.com/samber/lo"
	"github.com/tunedeck/tunedeck/cmd"
	"github.com/tunedeck/tunedeck/config"
	"github.com/tunedeck/tunedeck/internal/cache"
	"github.com/tunedeck/tunedeck/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cache.CollectGarbage()

	cmd.Execute()
}
