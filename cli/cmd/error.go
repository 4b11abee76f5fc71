package cmd

import "github.com/ardnew/sxhtml/lang"

// Command errors (sentinel values).
var (
	ErrCommand      = lang.NewError("command failed")
	ErrReadTemplate = ErrCommand.Derive("read template")
	ErrWriteOutput  = ErrCommand.Derive("write output")
	ErrWriteConfig  = ErrCommand.Derive("write configuration file")
	ErrFileExists   = ErrCommand.Derive("file exists (use --force to overwrite)")
	ErrYAMLMarshal  = ErrCommand.Derive("marshal YAML")
	ErrLoadLibrary  = ErrCommand.Derive("load template library")
	ErrMissingDB    = ErrCommand.Derive("--query requires --db")
	ErrQueryFlag    = ErrCommand.Derive("invalid --query, want NAME=SQL")
)
