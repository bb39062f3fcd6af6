package model

// Config holds the application settings loaded from the config file.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Import  ImportConfig  `yaml:"import"`
	Export  ExportConfig  `yaml:"export"`
	UI      UIConfig      `yaml:"ui"`
}

// StorageConfig selects and configures the key-value driver.
type StorageConfig struct {
	Driver       string `yaml:"driver"`
	DatabaseDir  string `yaml:"database_dir"`
	DatabaseFile string `yaml:"database_file"`
	RedisAddr    string `yaml:"redis_addr"`
	RedisDB      int    `yaml:"redis_db"`
	Key          string `yaml:"key"`
}

// LogConfig configures the application log file and its rotation.
type LogConfig struct {
	Folder     string `yaml:"folder"`
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ImportConfig struct {
	Strict bool `yaml:"strict"`
}

type ExportConfig struct {
	File string `yaml:"file"`
}

type UIConfig struct {
	Color       string `yaml:"color"` // auto, always or never
	HistoryFile string `yaml:"history_file"`
}
