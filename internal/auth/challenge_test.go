package auth

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNonce(t *testing.T) {
	n1, err := GenerateNonce()
	require.NoError(t, err)
	n2, err := GenerateNonce()
	require.NoError(t, err)

	assert.Len(t, n1, nonceBytes*2) // hex编码
	assert.Equal(t, strings.ToLower(n1), n1)
	assert.NotEqual(t, n1, n2)
}

func TestBuildChallenge(t *testing.T) {
	address := "0x742d35cc6634c0532925a3b844bc9e7595f8fa8e"
	nonce := "deadbeefdeadbeefdeadbeefdeadbeef"
	issuedAt := int64(1700000000000)

	message := BuildChallenge(address, nonce, issuedAt)

	assert.Contains(t, message, "Wallet address: "+address)
	assert.Contains(t, message, "Nonce: "+nonce)
	assert.Contains(t, message, fmt.Sprintf("Timestamp: %d", issuedAt))
	// 免责声明必须在消息内
	assert.Contains(t, message, "not send a blockchain transaction")
}

func TestBuildChallenge_Deterministic(t *testing.T) {
	// 相同输入必须逐字节一致，验证端依赖这一点重建消息
	m1 := BuildChallenge("0xabc", "nonce1", 42)
	m2 := BuildChallenge("0xabc", "nonce1", 42)
	assert.Equal(t, m1, m2)

	assert.NotEqual(t, m1, BuildChallenge("0xabc", "nonce1", 43))
	assert.NotEqual(t, m1, BuildChallenge("0xabc", "nonce2", 42))
}
