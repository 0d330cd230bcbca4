package catalog

import (
	"github.com/cocinamqb/stockdiario/internal/catalog/repository"
	"github.com/cocinamqb/stockdiario/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
