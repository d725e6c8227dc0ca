package server

import (
	"strings"

	obscontext "github.com/bookwise/bookwise/internal/observability/context"
	"github.com/bookwise/bookwise/internal/tenantctx"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

const HeaderTenant = "X-Tenant-ID"

// TenantRequired resolves the caller's tenant from the X-Tenant-ID header and
// injects it into the request context. Every /v1 route runs behind it.
func TenantRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderTenant))
		if raw == "" {
			AbortWithError(c, newValidationError("tenant", "invalid_tenant", "missing X-Tenant-ID header"))
			return
		}

		tenantID, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, newValidationError("tenant", "invalid_tenant", "invalid X-Tenant-ID header"))
			return
		}

		ctx := tenantctx.WithTenantID(c.Request.Context(), int64(tenantID))
		ctx = obscontext.WithTenantID(ctx, tenantID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
