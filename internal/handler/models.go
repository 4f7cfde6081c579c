package handler

import (
	"time"

	"github.com/grandiv/novalance-be/internal/logic"
)

// NonceRequest 请求签名挑战
type NonceRequest struct {
	Address string `json:"address" binding:"required"`
}

// VerifyRequest 提交签名验证
type VerifyRequest struct {
	Address   string `json:"address" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// UpdateProfileRequest 更新用户资料
type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Bio     *string `json:"bio"`
	Skills  *string `json:"skills"`
	Website *string `json:"website"`
	Github  *string `json:"github"`
}

// CreateProjectRequest 创建项目
type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// UpdateProjectRequest 更新项目
type UpdateProjectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Status      *string `json:"status"`
}

// LinkVaultRequest 关联金库合约
type LinkVaultRequest struct {
	VaultAddress string `json:"vault_address" binding:"required"`
}

// CreateRoleRequest 创建职位
type CreateRoleRequest struct {
	ProjectID     uint   `json:"project_id" binding:"required"`
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description"`
	KpiCount      int    `json:"kpi_count" binding:"required,min=1"`
	PaymentPerKpi string `json:"payment_per_kpi" binding:"required"`
}

// UpdateRoleRequest 更新职位
type UpdateRoleRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// KpiDescriptor 创建KPI时的单个描述
type KpiDescriptor struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

// CreateKpisRequest 一次性创建职位的全部KPI
type CreateKpisRequest struct {
	Kpis []KpiDescriptor `json:"kpis" binding:"required"`
}

// SubmitKpiRequest 提交KPI工作成果
type SubmitKpiRequest struct {
	Description string   `json:"description"`
	Links       []string `json:"links"`
}

// ToInput 转换为logic层输入
func (r SubmitKpiRequest) ToInput() logic.SubmissionInput {
	return logic.SubmissionInput{Description: r.Description, Links: r.Links}
}

// ReviewKpiRequest 审核KPI（通过/驳回）
type ReviewKpiRequest struct {
	Comment string `json:"comment"`
}

// RecordDepositRequest 登记链上存款
type RecordDepositRequest struct {
	TxHash              string `json:"tx_hash" binding:"required"`
	VaultBalanceAtStart string `json:"vault_balance_at_start"`
}

// RecordPayoutRequest 登记链上放款
type RecordPayoutRequest struct {
	TxHash            string `json:"tx_hash" binding:"required"`
	VaultBalanceAtEnd string `json:"vault_balance_at_end"`
	YieldEarned       string `json:"yield_earned"`
	PenaltyAmount     string `json:"penalty_amount"`
}

// ApplyRequest 申请职位
type ApplyRequest struct {
	RoleID      uint   `json:"role_id" binding:"required"`
	CoverLetter string `json:"cover_letter"`
}
