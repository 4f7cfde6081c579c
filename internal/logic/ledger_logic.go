package logic

import (
	"math/big"
	"strings"
	"time"

	"github.com/grandiv/novalance-be/internal/apperr"
	"github.com/grandiv/novalance-be/internal/model"
	"gorm.io/gorm"
)

// LedgerLogic 余额与收益汇总。
// 金额一律以十进制字符串存储、以big.Int计算，任何环节不经过浮点。
type LedgerLogic struct {
	db *gorm.DB
}

// NewLedgerLogic 创建汇总业务逻辑
func NewLedgerLogic(db *gorm.DB) *LedgerLogic {
	return &LedgerLogic{db: db}
}

// FreelancerBalance 自由职业者余额视图
type FreelancerBalance struct {
	Address          string `json:"address"`
	TotalEarned      string `json:"total_earned"`      // approved+paid 金额之和
	AvailableBalance string `json:"available_balance"` // 同 TotalEarned
	PendingKpis      int64  `json:"pending_kpis"`      // submitted 数量
	ApprovedKpis     int64  `json:"approved_kpis"`     // approved+paid 数量
}

// KpiEarning 单个已支付KPI的收益明细
type KpiEarning struct {
	KpiID           uint   `json:"kpi_id"`
	Title           string `json:"title"`
	Amount          string `json:"amount"`
	YieldEarned     string `json:"yield_earned"`
	FreelancerYield string `json:"freelancer_yield"` // 收益的40%
	OwnerYield      string `json:"owner_yield"`      // 收益的40%
	PlatformYield   string `json:"platform_yield"`   // 收益的20%
	PenaltyAmount   string `json:"penalty_amount"`
	FreelancerTotal string `json:"freelancer_total"` // amount + freelancerYield - penalty
	PaidAt          string `json:"paid_at"`
}

// EarningsSummary 自由职业者收益汇总
type EarningsSummary struct {
	Address         string       `json:"address"`
	TotalEarned     string       `json:"total_earned"`
	TotalYield      string       `json:"total_yield"`   // 自由职业者收益份额之和
	TotalPenalty    string       `json:"total_penalty"` // 罚金之和
	NetTotal        string       `json:"net_total"`     // FreelancerTotal 之和
	Kpis            []KpiEarning `json:"kpis"`
}

// ProjectBalance 项目余额视图
type ProjectBalance struct {
	ProjectID      uint   `json:"project_id"`
	TotalDeposited string `json:"total_deposited"`
	Spent          string `json:"spent"`     // paid KPI 金额之和
	Pending        string `json:"pending"`   // approved KPI 金额之和
	Remaining      string `json:"remaining"` // totalDeposited - spent
}

// GetFreelancerBalance 计算自由职业者的余额与KPI统计
func (l *LedgerLogic) GetFreelancerBalance(address string) (*FreelancerBalance, error) {
	addr := strings.ToLower(address)

	kpis, err := l.freelancerKpis(addr)
	if err != nil {
		return nil, err
	}

	total := new(big.Int)
	var pendingCount, approvedCount int64
	for i := range kpis {
		switch kpis[i].Status {
		case model.KpiStatusApproved, model.KpiStatusPaid:
			total.Add(total, parseAmount(kpis[i].Amount))
			approvedCount++
		case model.KpiStatusSubmitted:
			pendingCount++
		}
	}

	return &FreelancerBalance{
		Address:          addr,
		TotalEarned:      total.String(),
		AvailableBalance: total.String(),
		PendingKpis:      pendingCount,
		ApprovedKpis:     approvedCount,
	}, nil
}

// GetEarnings 计算自由职业者已支付KPI的收益明细（含40/40/20收益拆分）
func (l *LedgerLogic) GetEarnings(address string) (*EarningsSummary, error) {
	return l.earnings(address, nil, nil)
}

// GetEarningsBetween 按时间段计算收益，区间两端均为闭区间，
// 与KPI的最后更新时间比较
func (l *LedgerLogic) GetEarningsBetween(address string, from, to time.Time) (*EarningsSummary, error) {
	if to.Before(from) {
		return nil, apperr.Validation("时间区间无效")
	}
	return l.earnings(address, &from, &to)
}

func (l *LedgerLogic) earnings(address string, from, to *time.Time) (*EarningsSummary, error) {
	addr := strings.ToLower(address)

	query := l.db.Model(&model.Kpi{}).
		Joins("JOIN assignment ON assignment.id = kpi.assignment_id").
		Where("assignment.freelancer_address = ? AND kpi.status = ?", addr, model.KpiStatusPaid)
	if from != nil {
		query = query.Where("kpi.updated_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("kpi.updated_at <= ?", *to)
	}

	var kpis []model.Kpi
	if err := query.Order("kpi.updated_at ASC").Find(&kpis).Error; err != nil {
		return nil, err
	}

	summary := &EarningsSummary{Address: addr, Kpis: []KpiEarning{}}
	totalEarned := new(big.Int)
	totalYield := new(big.Int)
	totalPenalty := new(big.Int)
	netTotal := new(big.Int)

	for i := range kpis {
		amount := parseAmount(kpis[i].Amount)
		yield := parseAmount(kpis[i].YieldEarned)
		penalty := parseAmount(kpis[i].PenaltyAmount)

		freelancerYield, ownerYield, platformYield := splitYield(yield)

		// freelancerTotal = amount + freelancerYield - penalty
		freelancerTotal := new(big.Int).Add(amount, freelancerYield)
		freelancerTotal.Sub(freelancerTotal, penalty)

		totalEarned.Add(totalEarned, amount)
		totalYield.Add(totalYield, freelancerYield)
		totalPenalty.Add(totalPenalty, penalty)
		netTotal.Add(netTotal, freelancerTotal)

		summary.Kpis = append(summary.Kpis, KpiEarning{
			KpiID:           kpis[i].ID,
			Title:           kpis[i].Title,
			Amount:          amount.String(),
			YieldEarned:     yield.String(),
			FreelancerYield: freelancerYield.String(),
			OwnerYield:      ownerYield.String(),
			PlatformYield:   platformYield.String(),
			PenaltyAmount:   penalty.String(),
			FreelancerTotal: freelancerTotal.String(),
			PaidAt:          kpis[i].UpdatedAt.Format(time.RFC3339),
		})
	}

	summary.TotalEarned = totalEarned.String()
	summary.TotalYield = totalYield.String()
	summary.TotalPenalty = totalPenalty.String()
	summary.NetTotal = netTotal.String()
	return summary, nil
}

// GetProjectBalance 计算项目的支出/待结算/剩余
func (l *LedgerLogic) GetProjectBalance(projectID uint) (*ProjectBalance, error) {
	var project model.Project
	if err := l.db.First(&project, projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("项目不存在")
		}
		return nil, err
	}

	var kpis []model.Kpi
	if err := l.db.Model(&model.Kpi{}).
		Joins("JOIN role ON role.id = kpi.role_id").
		Where("role.project_id = ? AND kpi.status IN ?", projectID,
			[]model.KpiStatus{model.KpiStatusApproved, model.KpiStatusPaid}).
		Find(&kpis).Error; err != nil {
		return nil, err
	}

	spent := new(big.Int)
	pending := new(big.Int)
	for i := range kpis {
		amount := parseAmount(kpis[i].Amount)
		if kpis[i].Status == model.KpiStatusPaid {
			spent.Add(spent, amount)
		} else {
			pending.Add(pending, amount)
		}
	}

	deposited := parseAmount(project.TotalDeposited)
	remaining := new(big.Int).Sub(deposited, spent)

	return &ProjectBalance{
		ProjectID:      projectID,
		TotalDeposited: deposited.String(),
		Spent:          spent.String(),
		Pending:        pending.String(),
		Remaining:      remaining.String(),
	}, nil
}

// freelancerKpis 通过分配关系取自由职业者名下的全部KPI
func (l *LedgerLogic) freelancerKpis(address string) ([]model.Kpi, error) {
	var kpis []model.Kpi
	if err := l.db.Model(&model.Kpi{}).
		Joins("JOIN assignment ON assignment.id = kpi.assignment_id").
		Where("assignment.freelancer_address = ?", address).
		Find(&kpis).Error; err != nil {
		return nil, err
	}
	return kpis, nil
}
