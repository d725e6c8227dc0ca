package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bookwise/bookwise/internal/offering/domain"
	"github.com/bookwise/bookwise/internal/offering/repository"
	"github.com/bookwise/bookwise/internal/tenantctx"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	svc      domain.Service
	tenantID snowflake.ID
	ctx      context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Offering{},
		&domain.OfferingVariant{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	tenantID := node.Generate()
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})

	return &fixture{
		db:       db,
		node:     node,
		svc:      svc,
		tenantID: tenantID,
		ctx:      tenantctx.WithTenantID(context.Background(), int64(tenantID)),
	}
}

func strPtr(v string) *string { return &v }

func TestCreate_NormalizesCurrency(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(f.ctx, domain.CreateRequest{
		Name:           "Deep Tissue Massage",
		BasePriceCents: 8500,
		Currency:       strPtr("eur"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Currency)
	assert.Equal(t, "EUR", *resp.Currency)
	assert.True(t, resp.Active)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx, domain.CreateRequest{Name: "  ", BasePriceCents: 100})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = f.svc.Create(f.ctx, domain.CreateRequest{Name: "x", BasePriceCents: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidBasePrice)

	_, err = f.svc.Create(f.ctx, domain.CreateRequest{Name: "x", BasePriceCents: 100, Currency: strPtr("EURO")})
	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)
}

func TestGet_TenantIsolation(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(f.ctx, domain.CreateRequest{Name: "Private Dining", BasePriceCents: 12000})
	require.NoError(t, err)

	otherTenant := tenantctx.WithTenantID(context.Background(), int64(f.node.Generate()))
	_, err = f.svc.Get(otherTenant, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	resp, err := f.svc.Get(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.ID)
}

func TestArchive_DeactivatesOffering(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(f.ctx, domain.CreateRequest{Name: "Seasonal Menu", BasePriceCents: 4500})
	require.NoError(t, err)

	resp, err := f.svc.Archive(f.ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, resp.Active)

	active := true
	listed, err := f.svc.List(f.ctx, domain.ListRequest{Active: &active})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestVariants_CreateAndList(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(f.ctx, domain.CreateRequest{Name: "Room", BasePriceCents: 10000})
	require.NoError(t, err)

	variant, err := f.svc.CreateVariant(f.ctx, created.ID, domain.CreateVariantRequest{
		Name:               "Sea view",
		PriceModifierCents: 2500,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2500), variant.PriceModifierCents)

	variants, err := f.svc.ListVariants(f.ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, "Sea view", variants[0].Name)
}
