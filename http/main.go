package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/biblioteca-dev/book-asset-service/config"
	"github.com/biblioteca-dev/book-asset-service/http/controller"
	routes "github.com/biblioteca-dev/book-asset-service/http/route"
	infraPkg "github.com/biblioteca-dev/book-asset-service/infra"
	"github.com/biblioteca-dev/book-asset-service/repository"
)

func main() {
	err := godotenv.Load("staging.env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(infra)

	if err := infra.Minio.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("Failed to ensure bucket exists: %v", err)
	}

	ctrl := controller.NewController(cfg, infra, repo)

	router := routes.SetupRouter(ctrl)

	log.Println("HTTP Server started on :8080")
	if err := router.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
