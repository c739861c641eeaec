package handlers

import (
	"net/http"

	"meal-planner/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError 將錯誤轉為 ErrorResponse；debug 時附帶原始錯誤
func RespondError(c *gin.Context, err error, debug bool) {
	ce, ok := common.AsCustomError(err)
	if !ok {
		ce = common.WrapError(common.ErrInternalError, err)
	}

	fields := []zap.Field{
		zap.String("request_id", requestid.Get(c)),
		zap.String("code", ce.Code),
		zap.Int("status", ce.Status),
		zap.Error(err),
	}
	if ce.Status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogWarn("請求處理失敗", fields...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(ce.Status, ce.ToResponse(debug))
}

// RespondBadRequest 回傳請求格式錯誤
func RespondBadRequest(c *gin.Context, err error, debug bool) {
	RespondError(c, common.WrapError(common.ErrInvalidRequest, err), debug)
}
