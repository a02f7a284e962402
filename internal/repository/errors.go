package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	//一意制約違反（email・割引コードなど）
	ErrDuplicate = errors.New("duplicate")
)
