package task

import (
	"github.com/cocinamqb/stockdiario/internal/task/repository"
	"github.com/cocinamqb/stockdiario/internal/task/service"
	"go.uber.org/fx"
)

var Module = fx.Module("task.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
