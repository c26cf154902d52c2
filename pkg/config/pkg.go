package config

import "os"

var configer Configer = &DotenvConfig{DotenvPath: DefaultDotenvPath}

func SetConfig(c Configer) {
	configer = c
}

func GetConfig() Configer {
	return configer
}

// MustLoadFromDotenv loads the daemon configuration from the dotenv file
// named by CFS_DOTENV (falling back to DefaultDotenvPath). A missing file is
// not fatal; all keys can come from the process environment instead.
func MustLoadFromDotenv() Configer {
	path := os.Getenv("CFS_DOTENV")
	if path == "" {
		path = DefaultDotenvPath
	}

	c := NewDotenvConfig(path)
	_ = c.Load()
	configer = c

	return c
}

func LoadFromPath(path string) error {
	return configer.LoadFromPath(path)
}

func Load() error {
	return configer.Load()
}

func GetKey(key string) string {
	return configer.GetKey(key)
}

func MustGetKey(key string) string {
	return configer.MustGetKey(key)
}

func GetKeyWithDefault(key, defaultValue string) string {
	return configer.GetKeyWithDefault(key, defaultValue)
}

func GetIntKey(key string) int {
	return configer.GetIntKey(key)
}

func MustGetIntKey(key string) int {
	return configer.MustGetIntKey(key)
}

func GetIntKeyWithDefault(key string, defaultValue int) int {
	return configer.GetIntKeyWithDefault(key, defaultValue)
}
