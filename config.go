package press

import "github.com/goliatone/go-press/internal/runtimeconfig"

var (
	ErrMarkdownContentDirRequired = runtimeconfig.ErrMarkdownContentDirRequired
	ErrGeneratorOutputDirRequired = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrStorageDSNRequired         = runtimeconfig.ErrStorageDSNRequired
	ErrStorageDriverUnknown       = runtimeconfig.ErrStorageDriverUnknown
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	LintConfig           = runtimeconfig.LintConfig
	GeneratorConfig      = runtimeconfig.GeneratorConfig
	StorageConfig        = runtimeconfig.StorageConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
	Features             = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
