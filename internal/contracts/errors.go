package contracts

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every component.
// 엔진은 에러를 밖으로 던지지 않고, 신뢰 경계는 항상 판별 가능한 결과를 반환
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrExpired          = errors.New("expired")
	ErrComputation      = errors.New("computation failed")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError names the offending field of a malformed input
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrValidation) match
func (e ValidationError) Unwrap() error {
	return ErrValidation
}
