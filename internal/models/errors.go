package models

import "errors"

var (
	ErrParse             = errors.New("parse error")
	ErrInvalidBloodGroup = errors.New("invalid blood group")
	ErrInvalidRecord     = errors.New("invalid record")
	ErrNotEligible       = errors.New("donor not eligible")
)
