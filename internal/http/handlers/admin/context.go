package admin

import (
	handlershared "github.com/lunatickworker/hybridcasino-sub000/internal/http/handlers/shared"
	"github.com/lunatickworker/hybridcasino-sub000/internal/http/response"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "admin_id", "账号 ID 非法", "账号 ID 类型错误")
}

// getAdminScope 读取当前账号的组织可见范围
// 超管的可见根为 0（全组织），普通账号为其绑定的代理节点
func getAdminScope(c *gin.Context) (isSuper bool, partnerID uint, ok bool) {
	value, exists := c.Get("admin_is_super")
	if !exists {
		respondError(c, response.CodeUnauthorized, "未登录或登录已过期", nil)
		return false, 0, false
	}
	isSuper, _ = value.(bool)
	if isSuper {
		return true, 0, true
	}

	partnerID, ok = handlershared.GetContextUintWithKeys(c, "admin_partner_id", "可见范围非法", "可见范围类型错误")
	if !ok {
		return false, 0, false
	}
	if partnerID == 0 {
		respondError(c, response.CodeForbidden, "账号未绑定代理节点", nil)
		return false, 0, false
	}
	return false, partnerID, true
}

// requireSuper 管理类写操作仅超管可用
func requireSuper(c *gin.Context) bool {
	value, exists := c.Get("admin_is_super")
	if !exists {
		respondError(c, response.CodeUnauthorized, "未登录或登录已过期", nil)
		return false
	}
	if isSuper, _ := value.(bool); !isSuper {
		respondError(c, response.CodeForbidden, "仅超级管理员可操作", nil)
		return false
	}
	return true
}
