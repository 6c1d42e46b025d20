package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/foodcart-app/services"
	"github.com/yeremiapane/foodcart-app/utils"
)

var ErrBadRequest = errors.New("bad request: the request must be valid JSON")

// respondServiceError maps service errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondErrorData(c, http.StatusBadRequest, err, gin.H{"field": verr.Field})
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrRestaurantInUse):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.ErrorLogger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.Error(err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
	}
}

// paramID parses a positive numeric path parameter, answering 400 when it is not one.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

var errInvalidStatus = errors.New("status must be one of NEW, COOKING, DELIVERY, CLOSED")
