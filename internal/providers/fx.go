package providers

import (
	"github.com/cocinamqb/stockdiario/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	pdf.Module,
)
