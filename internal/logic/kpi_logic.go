package logic

import (
	"errors"
	"strings"
	"time"

	"github.com/grandiv/novalance-be/internal/apperr"
	"github.com/grandiv/novalance-be/internal/model"
	"gorm.io/gorm"
)

// KpiLogic KPI状态机业务逻辑。
// 所有转换按 存在性→授权→状态 的顺序校验，
// 状态写入使用基于当前状态的条件更新，避免check-then-act竞争。
type KpiLogic struct {
	db *gorm.DB
}

// NewKpiLogic 创建KPI业务逻辑
func NewKpiLogic(db *gorm.DB) *KpiLogic {
	return &KpiLogic{db: db}
}

// SubmissionInput KPI提交内容，自由文本或结构化的链接+描述
type SubmissionInput struct {
	Description string   `json:"description"`
	Links       []string `json:"links"`
}

func (s SubmissionInput) empty() bool {
	return strings.TrimSpace(s.Description) == "" && len(s.Links) == 0
}

// kpiContext 一次转换所需的完整上下文
type kpiContext struct {
	kpi        model.Kpi
	role       model.Role
	project    model.Project
	assignment *model.Assignment
}

// Submit 被分配的自由职业者提交工作成果：pending → submitted
func (k *KpiLogic) Submit(callerAddress string, kpiID uint, input SubmissionInput) (*model.Kpi, error) {
	ctx, err := k.fetchContext(kpiID)
	if err != nil {
		return nil, err
	}
	if err := requireAssignedFreelancer(ctx, callerAddress); err != nil {
		return nil, err
	}
	if ctx.kpi.Status != model.KpiStatusPending {
		return nil, apperr.InvalidState("KPI不在待开始状态")
	}
	if input.empty() {
		return nil, apperr.Validation("提交内容不能为空")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":           model.KpiStatusSubmitted,
		"submission":       input.Description,
		"submission_links": strings.Join(input.Links, "\n"),
		"submitted_at":     &now,
	}
	return k.transition(kpiID, model.KpiStatusPending, updates)
}

// Approve 项目所有者审核通过：submitted → approved，评语可选
func (k *KpiLogic) Approve(callerAddress string, kpiID uint, comment string) (*model.Kpi, error) {
	ctx, err := k.fetchContext(kpiID)
	if err != nil {
		return nil, err
	}
	if err := requireProjectOwner(ctx, callerAddress); err != nil {
		return nil, err
	}
	if ctx.kpi.Status != model.KpiStatusSubmitted {
		return nil, apperr.InvalidState("KPI不在已提交状态")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":         model.KpiStatusApproved,
		"review_comment": comment,
		"reviewed_at":    &now,
	}
	return k.transition(kpiID, model.KpiStatusSubmitted, updates)
}

// Reject 项目所有者驳回：submitted → rejected（终态，无重新提交路径），评语必填
func (k *KpiLogic) Reject(callerAddress string, kpiID uint, comment string) (*model.Kpi, error) {
	ctx, err := k.fetchContext(kpiID)
	if err != nil {
		return nil, err
	}
	if err := requireProjectOwner(ctx, callerAddress); err != nil {
		return nil, err
	}
	if ctx.kpi.Status != model.KpiStatusSubmitted {
		return nil, apperr.InvalidState("KPI不在已提交状态")
	}
	if len(strings.TrimSpace(comment)) < 10 {
		return nil, apperr.Validation("驳回评语不能少于10个字符")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":         model.KpiStatusRejected,
		"review_comment": comment,
		"reviewed_at":    &now,
	}
	return k.transition(kpiID, model.KpiStatusSubmitted, updates)
}

// Confirm 被分配的自由职业者在审核通过后确认收款：approved → paid。
// 链上放款由外部执行，这里只记录确认。
func (k *KpiLogic) Confirm(callerAddress string, kpiID uint) (*model.Kpi, error) {
	ctx, err := k.fetchContext(kpiID)
	if err != nil {
		return nil, err
	}
	if err := requireAssignedFreelancer(ctx, callerAddress); err != nil {
		return nil, err
	}
	if ctx.kpi.Status != model.KpiStatusApproved {
		return nil, apperr.InvalidState("KPI不在审核通过状态")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       model.KpiStatusPaid,
		"confirmed_at": &now,
	}
	return k.transition(kpiID, model.KpiStatusApproved, updates)
}

// RecordDeposit 项目所有者登记链上存款信息，不改变KPI状态，同时追加审计记录
func (k *KpiLogic) RecordDeposit(callerAddress string, kpiID uint, txHash, vaultBalanceAtStart string) (*model.Kpi, error) {
	ctx, err := k.fetchContext(kpiID)
	if err != nil {
		return nil, err
	}
	if err := requireProjectOwner(ctx, callerAddress); err != nil {
		return nil, err
	}
	if txHash == "" {
		return nil, apperr.Validation("交易哈希不能为空")
	}
	if vaultBalanceAtStart != "" && !isValidAmount(vaultBalanceAtStart) {
		return nil, apperr.Validation("无效的金库余额")
	}

	err = k.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Kpi{}).Where("id = ?", kpiID).Updates(map[string]interface{}{
			"deposit_tx_hash":        txHash,
			"vault_balance_at_start": vaultBalanceAtStart,
		}).Error; err != nil {
			return err
		}

		record := model.Transaction{
			Type:        model.TransactionTypeDeposit,
			TxHash:      txHash,
			FromAddress: ctx.project.OwnerAddress,
			ToAddress:   ctx.project.VaultAddress,
			Amount:      ctx.kpi.Amount,
			ProjectID:   &ctx.project.ID,
			KpiID:       &ctx.kpi.ID,
			Status:      model.TransactionStatusPending,
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return k.getKpi(kpiID)
}

// RecordPayout 项目所有者登记链上放款信息，强制置为paid，同时追加审计记录
func (k *KpiLogic) RecordPayout(callerAddress string, kpiID uint, txHash, vaultBalanceAtEnd, yieldEarned, penaltyAmount string) (*model.Kpi, error) {
	ctx, err := k.fetchContext(kpiID)
	if err != nil {
		return nil, err
	}
	if err := requireProjectOwner(ctx, callerAddress); err != nil {
		return nil, err
	}
	if txHash == "" {
		return nil, apperr.Validation("交易哈希不能为空")
	}
	if yieldEarned != "" && !isValidAmount(yieldEarned) {
		return nil, apperr.Validation("无效的收益金额")
	}
	if penaltyAmount != "" && !isValidAmount(penaltyAmount) {
		return nil, apperr.Validation("无效的罚金金额")
	}

	err = k.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Kpi{}).Where("id = ?", kpiID).Updates(map[string]interface{}{
			"status":               model.KpiStatusPaid,
			"payout_tx_hash":       txHash,
			"vault_balance_at_end": vaultBalanceAtEnd,
			"yield_earned":         yieldEarned,
			"penalty_amount":       penaltyAmount,
		}).Error; err != nil {
			return err
		}

		toAddress := ""
		if ctx.assignment != nil {
			toAddress = ctx.assignment.FreelancerAddress
		}
		record := model.Transaction{
			Type:        model.TransactionTypePayment,
			TxHash:      txHash,
			FromAddress: ctx.project.VaultAddress,
			ToAddress:   toAddress,
			Amount:      ctx.kpi.Amount,
			ProjectID:   &ctx.project.ID,
			KpiID:       &ctx.kpi.ID,
			Status:      model.TransactionStatusPending,
		}
		if ctx.assignment != nil {
			record.AssignmentID = &ctx.assignment.ID
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return k.getKpi(kpiID)
}

// GetRoleKpis 获取职位下的KPI列表
func (k *KpiLogic) GetRoleKpis(roleID uint) ([]model.Kpi, error) {
	var kpis []model.Kpi
	if err := k.db.Where("role_id = ?", roleID).Order("id ASC").Find(&kpis).Error; err != nil {
		return nil, err
	}
	return kpis, nil
}

// getKpi 获取单个KPI
func (k *KpiLogic) getKpi(id uint) (*model.Kpi, error) {
	var kpi model.Kpi
	if err := k.db.First(&kpi, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("KPI不存在")
		}
		return nil, err
	}
	return &kpi, nil
}

// fetchContext 重新拉取KPI及其所属职位→项目和分配
func (k *KpiLogic) fetchContext(kpiID uint) (*kpiContext, error) {
	var ctx kpiContext
	if err := k.db.First(&ctx.kpi, kpiID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("KPI不存在")
		}
		return nil, err
	}
	if err := k.db.First(&ctx.role, ctx.kpi.RoleID).Error; err != nil {
		return nil, err
	}
	if err := k.db.First(&ctx.project, ctx.role.ProjectID).Error; err != nil {
		return nil, err
	}
	if ctx.kpi.AssignmentID != nil {
		var assignment model.Assignment
		if err := k.db.First(&assignment, *ctx.kpi.AssignmentID).Error; err != nil {
			return nil, err
		}
		ctx.assignment = &assignment
	}
	return &ctx, nil
}

// transition 以期望的当前状态为条件执行状态更新；
// 条件不再满足时返回InvalidState，KPI保持原状态
func (k *KpiLogic) transition(kpiID uint, expected model.KpiStatus, updates map[string]interface{}) (*model.Kpi, error) {
	res := k.db.Model(&model.Kpi{}).
		Where("id = ? AND status = ?", kpiID, expected).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.InvalidState("KPI状态已变更，操作失败")
	}
	return k.getKpi(kpiID)
}

func requireProjectOwner(ctx *kpiContext, callerAddress string) error {
	if ctx.project.OwnerAddress != strings.ToLower(callerAddress) {
		return apperr.NotAuthorized("只有项目所有者可以执行此操作")
	}
	return nil
}

func requireAssignedFreelancer(ctx *kpiContext, callerAddress string) error {
	if ctx.assignment == nil || ctx.assignment.FreelancerAddress != strings.ToLower(callerAddress) {
		return apperr.NotAuthorized("只有被分配的自由职业者可以执行此操作")
	}
	return nil
}
