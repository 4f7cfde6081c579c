package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// nonceBytes 挑战随机数熵长度
const nonceBytes = 16

// challengeTemplate 挑战消息模板。
// 验证时必须用签发时存储的nonce和时间戳逐字节重建，改动会破坏已签发挑战的兼容性。
const challengeTemplate = `Welcome to NovaLance!

Signing this message will not send a blockchain transaction or cost any fee.

Wallet address: %s

Nonce: %s

Timestamp: %d`

// GenerateNonce 生成一次性随机nonce，小写hex编码
func GenerateNonce() (string, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// BuildChallenge 构造待签名的挑战消息，issuedAt为毫秒时间戳
func BuildChallenge(address, nonce string, issuedAt int64) string {
	return fmt.Sprintf(challengeTemplate, address, nonce, issuedAt)
}
