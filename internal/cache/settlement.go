package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/lunatickworker/hybridcasino-sub000/internal/constants"
)

// SettlementRowsKey 结算结果缓存键
// 键包含垫付扣减配置版本，配置变更后旧缓存自然失效
func SettlementRowsKey(callerPartnerID uint, from, to time.Time, configVersion int64) string {
	return fmt.Sprintf("%s:rows:%d:%d:%d:%d",
		constants.CacheKeySettlementPrefix, callerPartnerID, from.Unix(), to.Unix(), configVersion)
}

// GetSettlementRows 读取结算结果缓存
func GetSettlementRows(ctx context.Context, key string, dest interface{}) (bool, error) {
	return GetJSON(ctx, key, dest)
}

// SetSettlementRows 写入结算结果缓存
func SetSettlementRows(ctx context.Context, key string, rows interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, key, rows, ttl)
}
