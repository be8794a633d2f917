package repository

import "errors"

var (
	// 対象が存在しない
	ErrNotFound = errors.New("not found")

	// 一意制約に違反（order_number など）
	ErrDuplicate = errors.New("duplicate key")
)
