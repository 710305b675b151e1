// main is the entry point for the almanac CLI.
package main

import (
	"github.com/huangsam/almanac/cmd"
	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseStores()

	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Error starting CLI", err)
	}

	if err := cmd.StopProfiling(); err != nil {
		contract.LogWarn("Error stopping profiling", err)
	}
}
