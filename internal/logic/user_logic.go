package logic

import (
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/grandiv/novalance-be/internal/apperr"
	"github.com/grandiv/novalance-be/internal/auth"
	"github.com/grandiv/novalance-be/internal/model"
	"gorm.io/gorm"
)

// UserLogic 用户与钱包签名认证业务逻辑
type UserLogic struct {
	db *gorm.DB
}

// NewUserLogic 创建用户业务逻辑
func NewUserLogic(db *gorm.DB) *UserLogic {
	return &UserLogic{db: db}
}

// IssueNonce 为地址签发一次性挑战。
// 用户不存在时创建，存在时覆盖旧nonce；返回待签名的完整挑战消息。
func (u *UserLogic) IssueNonce(address string) (*model.User, string, error) {
	if !common.IsHexAddress(address) {
		return nil, "", apperr.Validation("无效的钱包地址")
	}
	addr := strings.ToLower(address)

	nonce, err := auth.GenerateNonce()
	if err != nil {
		return nil, "", err
	}
	issuedAt := time.Now().UnixMilli()

	var user model.User
	err = u.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("address = ?", addr).First(&user).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			user = model.User{
				Address:       addr,
				Nonce:         nonce,
				NonceIssuedAt: issuedAt,
			}
			return tx.Create(&user).Error
		}

		user.Nonce = nonce
		user.NonceIssuedAt = issuedAt
		return tx.Model(&user).Updates(map[string]interface{}{
			"nonce":           nonce,
			"nonce_issued_at": issuedAt,
		}).Error
	})
	if err != nil {
		return nil, "", err
	}

	message := auth.BuildChallenge(addr, nonce, issuedAt)
	return &user, message, nil
}

// VerifySignature 校验对已签发挑战的签名。
// 成功后在同一条件更新内轮换nonce，保证同一nonce至多认证一次；
// 失败不动nonce，允许重试。
func (u *UserLogic) VerifySignature(address, signature string) (*model.User, error) {
	if !common.IsHexAddress(address) {
		return nil, apperr.Validation("无效的钱包地址")
	}
	addr := strings.ToLower(address)

	var user model.User
	if err := u.db.Where("address = ?", addr).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("用户不存在")
		}
		return nil, err
	}

	// 必须用签发时存储的nonce与时间戳重建消息，保证与客户端签名的字节一致
	message := auth.BuildChallenge(addr, user.Nonce, user.NonceIssuedAt)
	if !auth.VerifySignature(addr, message, signature) {
		return nil, apperr.SignatureInvalid("签名校验失败")
	}

	newNonce, err := auth.GenerateNonce()
	if err != nil {
		return nil, err
	}

	// 条件更新实现compare-and-rotate：并发验证只有一个能命中旧nonce
	res := u.db.Model(&model.User{}).
		Where("address = ? AND nonce = ?", addr, user.Nonce).
		Updates(map[string]interface{}{
			"nonce":           newNonce,
			"nonce_issued_at": time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.SignatureInvalid("挑战已失效，请重新获取")
	}

	return &user, nil
}

// GetUser 获取用户资料
func (u *UserLogic) GetUser(address string) (*model.User, error) {
	var user model.User
	if err := u.db.Where("address = ?", strings.ToLower(address)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("用户不存在")
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile 更新用户资料，仅允许白名单字段
func (u *UserLogic) UpdateProfile(address string, updates map[string]interface{}) (*model.User, error) {
	user, err := u.GetUser(address)
	if err != nil {
		return nil, err
	}

	allowedFields := []string{"name", "email", "bio", "skills", "website", "github"}
	filtered := make(map[string]interface{})
	for _, field := range allowedFields {
		if v, ok := updates[field]; ok {
			filtered[field] = v
		}
	}
	if len(filtered) == 0 {
		return nil, apperr.Validation("没有要更新的字段")
	}

	if err := u.db.Model(user).Updates(filtered).Error; err != nil {
		return nil, err
	}
	return user, nil
}
