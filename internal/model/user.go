package model

import (
	"time"
)

// User 用户模型，以钱包地址（小写）为主键
type User struct {
	Address   string    `json:"address" gorm:"primaryKey;size:42"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 签名挑战：nonce与签发时间戳必须一起存储，
	// 验证时需用原始时间戳逐字节重建挑战消息
	Nonce         string `json:"-" gorm:"not null"`
	NonceIssuedAt int64  `json:"-" gorm:"not null"` // 毫秒时间戳

	// 资料信息
	Name    string `json:"name"`
	Email   string `json:"email"`
	Bio     string `json:"bio" gorm:"type:text"`
	Skills  string `json:"skills" gorm:"type:text"`
	Website string `json:"website"`
	Github  string `json:"github"`
}

// TableName 自定义表名
func (User) TableName() string {
	return "user"
}
