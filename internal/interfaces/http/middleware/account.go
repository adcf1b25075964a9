package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/selfservice/portal/internal/domain/onboarding"
	"github.com/selfservice/portal/internal/infrastructure/clients/connector"
	"github.com/selfservice/portal/internal/infrastructure/logger"
	"github.com/selfservice/portal/internal/interfaces/http/dto"
)

// Account context keys
const (
	AccountKey       = "account"
	SetupProgressKey = "stripe_setup_progress"
)

// AccountParamName is the path parameter carrying the account external id
const AccountParamName = "accountExternalId"

// AccountClient is the connector surface the account middleware needs
type AccountClient interface {
	GetAccountByExternalID(ctx context.Context, externalID, correlationID string) (*connector.Account, error)
	GetStripeAccountSetup(ctx context.Context, gatewayAccountID, correlationID string) (*onboarding.SetupProgress, error)
}

// AccountContext resolves the gateway account named in the path, checks it
// belongs to the authenticated session and attaches it to the request. For
// Stripe accounts the setup progress is fetched too; a failed progress
// lookup leaves it absent rather than failing the request, onboarding
// operations reject the missing progress themselves.
func AccountContext(client AccountClient, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		externalID := c.Param(AccountParamName)
		if externalID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.ErrorResponse(dto.ErrCodeBadRequest, "Account external id is required"))
			return
		}
		correlationID := GetCorrelationID(c)

		account, err := client.GetAccountByExternalID(c.Request.Context(), externalID, correlationID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound,
				dto.ErrorResponse(dto.ErrCodeNotFound, "Account not found"))
			return
		}

		if sess, ok := GetSession(c); ok && sess.GatewayAccountID != "" && sess.GatewayAccountID != account.GatewayAccountID {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.ErrorResponse(dto.ErrCodeForbidden, "Access to this account is forbidden"))
			return
		}

		c.Set(AccountKey, account)

		ctx, _ := logger.WithGatewayAccountID(c.Request.Context(), logger.FromContext(c.Request.Context()), account.GatewayAccountID)
		c.Request = c.Request.WithContext(ctx)

		if account.PaymentProvider == "stripe" {
			progress, err := client.GetStripeAccountSetup(c.Request.Context(), account.GatewayAccountID, correlationID)
			if err != nil {
				if log != nil {
					log.Warn("Stripe setup progress unavailable",
						zap.String("gateway_account_id", account.GatewayAccountID),
						zap.String("correlation_id", correlationID),
						zap.Error(err))
				}
			} else {
				c.Set(SetupProgressKey, progress)
			}
		}

		c.Next()
	}
}

// GetAccount returns the gateway account attached to the context
func GetAccount(c *gin.Context) (*connector.Account, bool) {
	value, ok := c.Get(AccountKey)
	if !ok {
		return nil, false
	}
	account, ok := value.(*connector.Account)
	return account, ok
}

// GetSetupProgress returns the attached Stripe setup progress, or nil when
// it was not resolvable for this request
func GetSetupProgress(c *gin.Context) *onboarding.SetupProgress {
	value, ok := c.Get(SetupProgressKey)
	if !ok {
		return nil
	}
	progress, ok := value.(*onboarding.SetupProgress)
	if !ok {
		return nil
	}
	return progress
}
