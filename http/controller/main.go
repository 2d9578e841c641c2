package controller

import (
	"github.com/biblioteca-dev/book-asset-service/config"
	"github.com/biblioteca-dev/book-asset-service/infra"
	"github.com/biblioteca-dev/book-asset-service/provider"
	"github.com/biblioteca-dev/book-asset-service/repository"
)

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository
	Books      *provider.BookAssetService
}

func NewController(config *config.Config, infra *infra.Infra, repo *repository.Repository) *Controller {
	if repo == nil {
		panic("Failed to initialize Repository")
	}
	books := provider.NewBookAssetService(
		infra.Minio,
		repo.BookRepo,
		repo.CategoryRepo,
		infra.Logger,
		infra.Produce.Cleanup,
		infra.Redis,
	)
	return &Controller{
		Config:     config,
		Infra:      infra,
		Repository: repo,
		Books:      books,
	}
}
