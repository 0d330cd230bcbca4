package workday

import (
	"github.com/cocinamqb/stockdiario/internal/workday/service"
	"go.uber.org/fx"
)

var Module = fx.Module("workday.service",
	fx.Provide(service.New),
)
