package count

import (
	"github.com/cocinamqb/stockdiario/internal/count/repository"
	"github.com/cocinamqb/stockdiario/internal/count/service"
	"go.uber.org/fx"
)

var Module = fx.Module("count.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
