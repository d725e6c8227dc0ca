package availability

import (
	"github.com/bookwise/bookwise/internal/availability/repository"
	"github.com/bookwise/bookwise/internal/availability/service"
	"go.uber.org/fx"
)

var Module = fx.Module("availability.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
