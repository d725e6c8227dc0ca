package pricingrule

import (
	"github.com/bookwise/bookwise/internal/pricingrule/repository"
	"github.com/bookwise/bookwise/internal/pricingrule/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pricingrule.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
