package data

import "github.com/ardnew/sxhtml/lang"

// Data source errors (sentinel values).
var (
	ErrData        = lang.NewError("data error")
	ErrReadSource  = ErrData.Derive("failed to read source")
	ErrDecode      = ErrData.Derive("decode document")
	ErrNotMapping  = ErrData.Derive("document root is not a mapping")
	ErrBinding     = ErrData.Derive("invalid binding")
	ErrExpression  = ErrData.Derive("evaluate expression")
	ErrOpenDB      = ErrData.Derive("open database")
	ErrQuery       = ErrData.Derive("query database")
	ErrConvertData = ErrData.Derive("convert value")
)
