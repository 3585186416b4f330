// Package handlers implements the HTTP endpoints of the MolParse API.
package handlers

import (
	stderrors "errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MolParse/pkg/errors"
	"github.com/turtacn/MolParse/pkg/types/common"
)

// parsePagination extracts page and page_size from query parameters, leaving
// clamping to common.PageRequest.Normalize.
func parsePagination(c *gin.Context) common.PageRequest {
	page := common.PageRequest{Page: 1, PageSize: 20}
	if v := c.Query("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			page.Page = p
		}
	}
	if v := c.Query("page_size"); v != "" {
		if ps, err := strconv.Atoi(v); err == nil {
			page.PageSize = ps
		}
	}
	return page
}

// respondError maps an application error onto the uniform failure envelope,
// deriving the HTTP status from the platform error code.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	message := errors.DefaultMessageForCode(code)
	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		message = ae.Message
	}
	c.JSON(errors.HTTPStatusForCode(code), common.NewErrorResponse(string(code), message))
}

// respondOK wraps data in the uniform success envelope.
func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, common.APIResponse[interface{}]{Success: true, Data: data})
}

// statusForParseError maps a structured parse failure onto an HTTP status:
// lex and syntax errors are 400, semantic rejections 422, per the platform
// code table.
func statusForParseError(code string) int {
	return errors.HTTPStatusForCode(errors.ErrorCode(code))
}
