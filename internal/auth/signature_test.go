package auth

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signMessage 用personal_sign方案签名消息，返回钱包格式（V=27/28）的签名
func signMessage(t *testing.T, message string) (address, signature string) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	sig[crypto.RecoveryIDOffset] += 27

	return crypto.PubkeyToAddress(key.PublicKey).Hex(), hexutil.Encode(sig)
}

func TestVerifySignature_Valid(t *testing.T) {
	message := "hello novalance"
	address, signature := signMessage(t, message)

	assert.True(t, VerifySignature(address, message, signature))
	// 地址大小写不影响
	assert.True(t, VerifySignature(strings.ToLower(address), message, signature))
}

func TestVerifySignature_TamperedMessage(t *testing.T) {
	message := "hello novalance"
	address, signature := signMessage(t, message)

	// 消息改动任意一个字符都应失败
	assert.False(t, VerifySignature(address, "hello novalancf", signature))
	assert.False(t, VerifySignature(address, message+" ", signature))
}

func TestVerifySignature_WrongAddress(t *testing.T) {
	message := "hello novalance"
	_, signature := signMessage(t, message)
	other, _ := signMessage(t, message)

	assert.False(t, VerifySignature(other, message, signature))
}

func TestVerifySignature_Malformed(t *testing.T) {
	message := "hello novalance"
	address, signature := signMessage(t, message)

	// 非法输入不panic，一律false
	assert.False(t, VerifySignature(address, message, ""))
	assert.False(t, VerifySignature(address, message, "not-hex"))
	assert.False(t, VerifySignature(address, message, "0x1234"))
	assert.False(t, VerifySignature(address, message, signature[:len(signature)-4]))
}

func TestVerifySignature_RawRecoveryID(t *testing.T) {
	// 部分签名方实现直接返回V=0/1
	message := "hello novalance"
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)

	address := crypto.PubkeyToAddress(key.PublicKey).Hex()
	assert.True(t, VerifySignature(address, message, hexutil.Encode(sig)))
}
