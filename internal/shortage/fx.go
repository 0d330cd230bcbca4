package shortage

import (
	"github.com/cocinamqb/stockdiario/internal/shortage/repository"
	"github.com/cocinamqb/stockdiario/internal/shortage/service"
	"go.uber.org/fx"
)

var Module = fx.Module("shortage.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
