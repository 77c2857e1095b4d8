package config

const (
	defaultStage        = StageRelease
	defaultLanguage     = "English"
	defaultStoryVersion = 5
	defaultHistoryPath  = "~/.local/share/inform-compile/history.db"
	defaultLogFormat    = "console"
	defaultLogLevel     = "warn"
)

// Stage names accepted by compiler.stage.
const (
	StageRelease     = "release"
	StageDevelopment = "development"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Compiler: Compiler{
			Stage:        defaultStage,
			Language:     defaultLanguage,
			StoryVersion: defaultStoryVersion,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
