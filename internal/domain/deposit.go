package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type DepositRequest struct {
	Amount uint64
}

func NewDepositRequest(amount int64) (DepositRequest, error) {
	if amount <= 0 {
		return DepositRequest{}, fmt.Errorf("%w: got %d", ErrInvalidDepositAmount, amount)
	}

	return DepositRequest{Amount: uint64(amount)}, nil
}

// ParseDepositAmount reads the leading decimal integer of raw, so "12abc" is 12
// and "3.9" is 3. Anything that does not yield a positive integer is rejected.
func ParseDepositAmount(raw string) (DepositRequest, error) {
	trimmed := strings.TrimSpace(raw)

	end := 0
	if end < len(trimmed) && (trimmed[end] == '-' || trimmed[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return DepositRequest{}, fmt.Errorf("%w: %q", ErrInvalidDepositAmount, raw)
	}

	if trimmed[0] == '-' {
		return DepositRequest{}, fmt.Errorf("%w: %q", ErrInvalidDepositAmount, raw)
	}

	amount, err := strconv.ParseUint(trimmed[digitsStart:end], 10, 64)
	if err != nil {
		return DepositRequest{}, fmt.Errorf("%w: %q", ErrInvalidDepositAmount, raw)
	}
	if amount == 0 {
		return DepositRequest{}, fmt.Errorf("%w: %q", ErrInvalidDepositAmount, raw)
	}

	return DepositRequest{Amount: amount}, nil
}
