package company

import (
	"errors"
	"fmt"
)

var (
	// ErrCompanyNotFound は会社が存在しない場合に返却されます。
	ErrCompanyNotFound = errors.New("company not found")
	// ErrCodeAlreadyExists はコード重複時に返却されます。
	ErrCodeAlreadyExists = errors.New("code already exists")
	// ErrDirectorAlreadyAssigned は取締役が別の会社に割り当て済みの場合に返却されます。
	ErrDirectorAlreadyAssigned = errors.New("director already assigned")
	// ErrDirectorNotFound は取締役に該当する人物が存在しない場合に返却されます。
	ErrDirectorNotFound = errors.New("director not found")
	// ErrInvalidPageSize は一覧取得時のページサイズが不正な場合に返却されます。
	ErrInvalidPageSize = errors.New("invalid page size")
	// ErrInvalidPageToken は一覧取得時のページトークンが不正な場合に返却されます。
	ErrInvalidPageToken = errors.New("invalid page token")
)

// StoreError はストア操作の失敗を操作名とともに表します。
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("company store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) error {
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
