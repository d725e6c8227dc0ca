package offering

import (
	"github.com/bookwise/bookwise/internal/offering/repository"
	"github.com/bookwise/bookwise/internal/offering/service"
	"go.uber.org/fx"
)

var Module = fx.Module("offering.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
