package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"wellcontrol/hydraulics"
	"wellcontrol/service"
)

// respondServiceError 把 service 层错误映射为统一响应。
// 计算输入类错误按客户端错误处理，其余按服务端错误。
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWellNotFound), errors.Is(err, service.ErrRunNotFound):
		c.JSON(http.StatusNotFound, fail(errNotFound, err.Error()))
	case errors.Is(err, hydraulics.ErrInvalidInput), errors.Is(err, hydraulics.ErrMissingRheology):
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
	case errors.Is(err, service.ErrRigOffline):
		c.JSON(http.StatusServiceUnavailable, fail(errRigOffline, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, fail(errInternalServer, err.Error()))
	}
}

// attachmentDisposition 带中文文件名的下载头
func attachmentDisposition(name string) string {
	escaped := url.QueryEscape(name)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, escaped, escaped)
}
