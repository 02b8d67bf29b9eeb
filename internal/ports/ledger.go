package ports

import "context"

type Ledger interface {
	GetDeposit(ctx context.Context) (uint64, error)
	CalculateRewards(ctx context.Context) (float64, error)
	Deposit(ctx context.Context, amount uint64) (bool, error)
}
