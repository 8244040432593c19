package main

import (
	"flag"
	"log"

	"codeboard/internal/di"
	"codeboard/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "configs/codeboard.yaml", "path to the configuration file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "enable debug logging to stdout")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		log.Fatalf("codeboard: %s", err)
	}
}
