package history

import (
	"github.com/cocinamqb/stockdiario/internal/history/repository"
	"github.com/cocinamqb/stockdiario/internal/history/service"
	"go.uber.org/fx"
)

var Module = fx.Module("history.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
