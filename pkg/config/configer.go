package config

// Configer is the interface all configuration sources implement. The daemon
// uses the dotenv implementation; tests use MapConfig so they never depend on
// the environment.
type Configer interface {
	LoadFromPath(path string) error
	Load() error
	GetKey(key string) string
	MustGetKey(key string) string
	GetKeyWithDefault(key, defaultValue string) string
	GetIntKey(key string) int
	MustGetIntKey(key string) int
	GetIntKeyWithDefault(key string, defaultValue int) int
}
