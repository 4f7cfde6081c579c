package vault

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/grandiv/novalance-be/internal/config"
)

// 金库合约ABI定义（只读接口 + 资金事件）
const vaultABI = `[
	{
		"inputs": [],
		"name": "getBalance",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"name": "index", "type": "uint256"}],
		"name": "kpiStatus",
		"outputs": [
			{"name": "completed", "type": "bool"},
			{"name": "amount", "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "projectInfo",
		"outputs": [
			{"name": "owner", "type": "address"},
			{"name": "token", "type": "address"},
			{"name": "totalDeposited", "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "from", "type": "address"},
			{"indexed": false, "name": "amount", "type": "uint256"}
		],
		"name": "Deposited",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "kpiIndex", "type": "uint256"},
			{"indexed": true, "name": "to", "type": "address"},
			{"indexed": false, "name": "amount", "type": "uint256"}
		],
		"name": "PayoutExecuted",
		"type": "event"
	}
]`

// Client 金库合约只读客户端。
// 读取失败由调用方降级处理，这里不做重试。
type Client struct {
	client  *ethclient.Client
	abi     abi.ABI
	timeout time.Duration
}

// KpiStatus 链上KPI状态
type KpiStatus struct {
	Completed bool   `json:"completed"`
	Amount    string `json:"amount"`
}

// ProjectInfo 链上项目信息
type ProjectInfo struct {
	Owner          string `json:"owner"`
	Token          string `json:"token"`
	TotalDeposited string `json:"total_deposited"`
}

// Init 初始化金库客户端
func Init(cfg config.ChainConfig) (*Client, error) {
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chain rpc: %w", err)
	}

	parsedABI, err := abi.JSON(strings.NewReader(vaultABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse vault ABI: %w", err)
	}

	timeout := time.Duration(cfg.CallTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		client:  client,
		abi:     parsedABI,
		timeout: timeout,
	}, nil
}

// GetBalance 读取金库当前余额，十进制字符串
func (c *Client) GetBalance(ctx context.Context, vaultAddress string) (string, error) {
	out, err := c.call(ctx, vaultAddress, "getBalance")
	if err != nil {
		return "", err
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return "", fmt.Errorf("unexpected getBalance output type")
	}
	return balance.String(), nil
}

// GetKpiStatus 读取链上单个KPI的完成状态与金额
func (c *Client) GetKpiStatus(ctx context.Context, vaultAddress string, index uint64) (*KpiStatus, error) {
	out, err := c.call(ctx, vaultAddress, "kpiStatus", new(big.Int).SetUint64(index))
	if err != nil {
		return nil, err
	}
	completed, ok1 := out[0].(bool)
	amount, ok2 := out[1].(*big.Int)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("unexpected kpiStatus output types")
	}
	return &KpiStatus{Completed: completed, Amount: amount.String()}, nil
}

// GetProjectInfo 读取链上项目信息
func (c *Client) GetProjectInfo(ctx context.Context, vaultAddress string) (*ProjectInfo, error) {
	out, err := c.call(ctx, vaultAddress, "projectInfo")
	if err != nil {
		return nil, err
	}
	owner, ok1 := out[0].(common.Address)
	token, ok2 := out[1].(common.Address)
	deposited, ok3 := out[2].(*big.Int)
	if !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("unexpected projectInfo output types")
	}
	return &ProjectInfo{
		Owner:          strings.ToLower(owner.Hex()),
		Token:          strings.ToLower(token.Hex()),
		TotalDeposited: deposited.String(),
	}, nil
}

// GetLatestBlock 获取最新区块号
func (c *Client) GetLatestBlock(ctx context.Context) (uint64, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	header, err := c.client.HeaderByNumber(callCtx, nil)
	if err != nil {
		return 0, err
	}
	return header.Number.Uint64(), nil
}

// GetReceiptStatus 查询交易回执状态。
// 返回 (found, success, blockNumber)；交易尚未上链时 found 为 false。
func (c *Client) GetReceiptStatus(ctx context.Context, txHash string) (bool, bool, uint64, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	receipt, err := c.client.TransactionReceipt(callCtx, common.HexToHash(txHash))
	if err != nil {
		if err == ethereum.NotFound {
			return false, false, 0, nil
		}
		return false, false, 0, err
	}
	return true, receipt.Status == types.ReceiptStatusSuccessful, receipt.BlockNumber.Uint64(), nil
}

// FilterVaultLogs 拉取指定金库地址在区块范围内的事件日志
func (c *Client) FilterVaultLogs(ctx context.Context, vaultAddresses []string, fromBlock, toBlock uint64) ([]types.Log, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	addresses := make([]common.Address, 0, len(vaultAddresses))
	for _, addr := range vaultAddresses {
		addresses = append(addresses, common.HexToAddress(addr))
	}

	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: addresses,
	}
	return c.client.FilterLogs(callCtx, query)
}

// ABI 暴露合约ABI供事件解析使用
func (c *Client) ABI() abi.ABI {
	return c.abi
}

// call 执行一次eth_call并解包返回值
func (c *Client) call(ctx context.Context, vaultAddress, method string, args ...interface{}) ([]interface{}, error) {
	if !common.IsHexAddress(vaultAddress) {
		return nil, fmt.Errorf("invalid vault address: %s", vaultAddress)
	}

	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	to := common.HexToAddress(vaultAddress)
	raw, err := c.client.CallContract(callCtx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}

	out, err := c.abi.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result: %w", method, err)
	}
	return out, nil
}
