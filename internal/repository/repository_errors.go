package repository

import "errors"

var ErrProductNotFound = errors.New("product not found")
var ErrDuplicateProductID = errors.New("product id already taken")
var ErrUserNotFound = errors.New("user not found")
var ErrUserAlreadyExists = errors.New("user with this email already exists")
var ErrOrderNotFound = errors.New("order not found")
