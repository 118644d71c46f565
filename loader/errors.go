package loader

import "errors"

// Each failing stage wraps exactly one of these, so callers can classify a
// failure with errors.Is while keeping the underlying cause.
var (
	ErrConfig = errors.New("configuration error")
	ErrInput  = errors.New("input error")
	ErrSchema = errors.New("schema error")
	ErrWrite  = errors.New("write error")
)

// Stage names a step of a load run; used as a log field.
type Stage string

const (
	StageConfig Stage = "config"
	StageRead   Stage = "read"
	StageDerive Stage = "derive"
	StageWrite  Stage = "write"
	StageVerify Stage = "verify"
)
