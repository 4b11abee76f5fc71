// Package cmd implements the sxhtml subcommands.
package cmd

const (
	// CacheIdentifier is the kong variable holding the cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the configuration file
	// path.
	ConfigIdentifier = "config"

	// DoctypeIdentifier is the kong variable holding the default doctype.
	DoctypeIdentifier = "doctype"

	// TemplateExt is the file extension of templates in a library directory.
	TemplateExt = ".sx"
)
