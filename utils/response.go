package utils

import "github.com/gin-gonic/gin"

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, 200, 0, "success", data)
}

// Created returns a standard response for newly created resources.
func Created(ctx *gin.Context, data interface{}) {
	Respond(ctx, 201, 0, "created", data)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}

// Paginated wraps a listing payload in the standard pagination envelope.
func Paginated(items interface{}, total int64, page, limit int) gin.H {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return gin.H{
		"items": items,
		"total": total,
		"page":  page,
		"pages": pages,
	}
}
