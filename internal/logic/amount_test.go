package logic

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	assert.Equal(t, "0", parseAmount("").String())
	assert.Equal(t, "0", parseAmount("not-a-number").String())
	assert.Equal(t, "0", parseAmount("1.5").String())
	assert.Equal(t, "1000000", parseAmount("1000000").String())
	// 超出uint64范围的金额照常处理
	assert.Equal(t, "123456789012345678901234567890", parseAmount("123456789012345678901234567890").String())
}

func TestIsValidAmount(t *testing.T) {
	assert.True(t, isValidAmount("0"))
	assert.True(t, isValidAmount("1000000"))
	assert.False(t, isValidAmount(""))
	assert.False(t, isValidAmount("-1"))
	assert.False(t, isValidAmount("1.5"))
	assert.False(t, isValidAmount("abc"))
}

func TestSplitYield(t *testing.T) {
	freelancer, owner, platform := splitYield(big.NewInt(100000))
	assert.Equal(t, "40000", freelancer.String())
	assert.Equal(t, "40000", owner.String())
	assert.Equal(t, "20000", platform.String())
}

func TestSplitYield_Truncation(t *testing.T) {
	// 101 * 40 / 100 = 40（截断），三份之和允许小于总收益
	freelancer, owner, platform := splitYield(big.NewInt(101))
	assert.Equal(t, "40", freelancer.String())
	assert.Equal(t, "40", owner.String())
	assert.Equal(t, "20", platform.String())
}

func TestSplitYield_Zero(t *testing.T) {
	freelancer, owner, platform := splitYield(new(big.Int))
	assert.Equal(t, "0", freelancer.String())
	assert.Equal(t, "0", owner.String())
	assert.Equal(t, "0", platform.String())
}
