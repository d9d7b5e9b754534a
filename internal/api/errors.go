package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
)

// writeDomainError транслирует доменную ошибку в HTTP ответ.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case domain.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"error": "already_exists"})
	case domain.IsVersionConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": "version_conflict"})
	case errors.Is(err, domain.ErrTableConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "table_conflict", "msg": err.Error()})
	case errors.Is(err, domain.ErrStatusTransitionInvalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid_status_transition", "msg": err.Error()})
	case errors.Is(err, domain.ErrStatusUnknown):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_status"})
	case errors.Is(err, domain.ErrNotificationNotDue):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "notification_not_due"})
	case isValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "msg": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrCustomerNameRequired,
		domain.ErrItemsRequired,
		domain.ErrTotalNegative,
		domain.ErrItemNameRequired,
		domain.ErrItemQtyInvalid,
		domain.ErrItemPriceInvalid,
		domain.ErrTotalMismatch,
		domain.ErrReservationDateRequired,
		domain.ErrReservationTimeRequired,
		domain.ErrPartySizeInvalid,
		domain.ErrTableNumberInvalid,
		domain.ErrOrderCountNegative,
		domain.ErrLoyaltyPointsNegative,
		domain.ErrNotificationTitleRequired,
		domain.ErrNotificationMessageRequired,
		domain.ErrRecipientCountNegative,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
