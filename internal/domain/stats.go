package domain

import "fmt"

const (
	DepositUnit = "ICP"
	RewardsUnit = "CAFF"
)

// PollResult is one tick's snapshot. It replaces the previous one and is never merged.
type PollResult struct {
	Deposit uint64  `json:"deposit"`
	Rewards float64 `json:"rewards"`
}

func (r PollResult) DepositLabel() string {
	return fmt.Sprintf("%d %s", r.Deposit, DepositUnit)
}

func (r PollResult) RewardsLabel() string {
	return fmt.Sprintf("%.4f %s", r.Rewards, RewardsUnit)
}
