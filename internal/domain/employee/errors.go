package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrNegativeBalance  = errors.New("annual leave balance cannot be negative")
)
