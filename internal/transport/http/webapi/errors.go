package webapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kei-test/mega/internal/platform/errors"
	httptransport "github.com/kei-test/mega/internal/transport/http"
)

// respondDomainError maps typed domain errors onto HTTP statuses. Policy
// denials and credential failures surface their message; everything else is
// an opaque 500.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.IsKind(err, errors.KindPolicy), errors.IsKind(err, errors.KindCredentials):
		httptransport.RespondError(c, http.StatusUnauthorized, errors.Reason(err), nil)
	case errors.IsKind(err, errors.KindDomain):
		httptransport.RespondError(c, http.StatusBadRequest, errors.Reason(err), nil)
	default:
		httptransport.RespondError(c, http.StatusInternalServerError, "internal error", nil)
	}
}
