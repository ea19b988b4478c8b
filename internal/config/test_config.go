package config

import "time"

// TestConfig returns a config suitable for testing. Paths are left empty;
// tests that need a database point it at t.TempDir().
func TestConfig() *Config {
	d := defaultConfig()
	return &Config{
		API: APIConfig{
			BaseURL:   "http://127.0.0.1:0",
			Timeout:   5 * time.Second,
			UserAgent: "journal-test/1.0",
			Mode:      "client",
		},
		Lists: d.Lists,
		Database: DatabaseConfig{
			Timeout: 1 * time.Second,
		},
		Log:   LogConfig{Level: "OFF"},
		UI:    d.UI,
		Media: d.Media,
		Keys:  d.Keys,
	}
}
