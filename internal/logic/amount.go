package logic

import (
	"math/big"

	"github.com/grandiv/novalance-be/internal/logger"
)

// parseAmount 解析十进制字符串金额为大整数。
// 空串视为0；非法值记日志并按0处理，避免单条脏数据拖垮整个汇总。
func parseAmount(s string) *big.Int {
	if s == "" {
		return new(big.Int)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		logger.Warn("invalid amount string %q, treated as 0", s)
		return new(big.Int)
	}
	return v
}

// isValidAmount 校验金额字符串是否为非负十进制整数
func isValidAmount(s string) bool {
	if s == "" {
		return false
	}
	v, ok := new(big.Int).SetString(s, 10)
	return ok && v.Sign() >= 0
}

// splitYield 按 40/40/20 拆分收益：自由职业者/项目方/平台，整数截断
func splitYield(yield *big.Int) (freelancer, owner, platform *big.Int) {
	hundred := big.NewInt(100)
	freelancer = new(big.Int).Div(new(big.Int).Mul(yield, big.NewInt(40)), hundred)
	owner = new(big.Int).Div(new(big.Int).Mul(yield, big.NewInt(40)), hundred)
	platform = new(big.Int).Div(new(big.Int).Mul(yield, big.NewInt(20)), hundred)
	return freelancer, owner, platform
}
