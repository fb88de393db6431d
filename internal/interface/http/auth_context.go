package http

import (
	"github.com/gin-gonic/gin"

	"github.com/nuvia/nutrition-advisor/internal/domain/adminauth"
)

const operatorClaimsKey = "operator_claims"

func setOperatorClaims(c *gin.Context, claims adminauth.Claims) {
	c.Set(operatorClaimsKey, claims)
}

func getOperatorClaims(c *gin.Context) (adminauth.Claims, bool) {
	value, ok := c.Get(operatorClaimsKey)
	if !ok {
		return adminauth.Claims{}, false
	}
	claims, ok := value.(adminauth.Claims)
	return claims, ok
}
