package user

import "errors"

var (
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrInvalidToken           = errors.New("invalid or missing token")
)
