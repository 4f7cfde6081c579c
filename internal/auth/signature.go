package auth

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// VerifySignature 校验personal_sign签名是否出自claimedAddress。
// 任何格式错误都返回false，不会panic。
func VerifySignature(claimedAddress, message, signature string) bool {
	sig, err := hexutil.Decode(signature)
	if err != nil || len(sig) != crypto.SignatureLength {
		return false
	}

	// 钱包返回的V为27/28，恢复公钥需要0/1
	recovery := make([]byte, crypto.SignatureLength)
	copy(recovery, sig)
	if recovery[crypto.RecoveryIDOffset] >= 27 {
		recovery[crypto.RecoveryIDOffset] -= 27
	}
	if recovery[crypto.RecoveryIDOffset] > 1 {
		return false
	}

	// EIP-191前缀哈希
	hash := accounts.TextHash([]byte(message))

	pubKey, err := crypto.SigToPub(hash, recovery)
	if err != nil {
		return false
	}

	recovered := crypto.PubkeyToAddress(*pubKey)
	return strings.EqualFold(recovered.Hex(), claimedAddress)
}
