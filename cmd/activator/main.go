package main

import (
	"context"
	"log"
	"os"

	"github.com/jaineet17/AWS-File-Processing-System/internal/server"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	a, err := server.NewActivator(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
