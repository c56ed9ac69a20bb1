package algo

import "errors"

const (
	// km/h -> m/min
	KMH_TO_M_PER_MIN = 1000.0 / 60
)

var (
	// 错误：结点不存在
	ErrNodeNotFound = errors.New("node not found in graph")
	// 错误：边权不能为负
	ErrNegativeLength = errors.New("edge length must not be negative")
)
