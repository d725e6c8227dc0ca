package migration

import (
	availabilitydomain "github.com/bookwise/bookwise/internal/availability/domain"
	"github.com/bookwise/bookwise/internal/config"
	offeringdomain "github.com/bookwise/bookwise/internal/offering/domain"
	ruledomain "github.com/bookwise/bookwise/internal/pricingrule/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// The versioned SQL targets postgres; other dialects (sqlite for
		// local development, mysql) get the schema via AutoMigrate.
		return conn.AutoMigrate(
			&offeringdomain.Offering{},
			&offeringdomain.OfferingVariant{},
			&ruledomain.PricingRule{},
			&availabilitydomain.AvailabilitySlot{},
		)
	}),
)
