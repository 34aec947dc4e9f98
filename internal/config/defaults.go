package config

const (
	defaultConfigPath          = "~/.config/medialib/config.toml"
	defaultDataDir             = "~/.local/share/medialib"
	defaultLogDir              = "~/.local/share/medialib/logs"
	defaultLibraryDir          = "~/music"
	defaultAPIBind             = "127.0.0.1:7490"
	defaultFetchBinary         = "yt-dlp"
	defaultAudioFormat         = "mp3"
	defaultAudioQuality        = "192"
	defaultThumbnailFormat     = "jpg"
	defaultOutputTemplate      = "%(title)s.%(ext)s"
	defaultFetchTimeoutSeconds = 1800
	defaultQueuePollInterval   = 10
	defaultErrorRetryInterval  = 10
	defaultMaxConcurrent       = 4
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLogRetentionDays    = 30
	defaultNotifyTimeout       = 10
	defaultNotifyQueueMinItems = 2
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			LibraryDir: defaultLibraryDir,
			APIBind:    defaultAPIBind,
		},
		Fetch: Fetch{
			Binary:          defaultFetchBinary,
			AudioFormat:     defaultAudioFormat,
			AudioQuality:    defaultAudioQuality,
			WriteThumbnail:  true,
			ThumbnailFormat: defaultThumbnailFormat,
			OutputTemplate:  defaultOutputTemplate,
			TimeoutSeconds:  defaultFetchTimeoutSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Queue:          true,
			Errors:         true,
			QueueMinItems:  defaultNotifyQueueMinItems,
		},
		Workflow: Workflow{
			QueuePollInterval:    defaultQueuePollInterval,
			ErrorRetryInterval:   defaultErrorRetryInterval,
			MaxConcurrentFetches: defaultMaxConcurrent,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
