package astrocore

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/viper"
)

var (
	cfgOnce sync.Once
	cfgErr  error
	cfg     *viper.Viper
)

// LoadConfig reads `conf.toml` from the directory named by the
// ASTROCORE_CONFIG environment variable, exactly the way the teacher's
// `smdConfig()` singleton loads `conf.toml` from `SMD_CONFIG` — but without
// the SPICE/Horizons branches, which are an external ephemeris service
// consumed only through a FrameProvider in this module. The result is
// memoized; repeated calls are cheap.
func LoadConfig() (*viper.Viper, error) {
	cfgOnce.Do(func() {
		confPath := os.Getenv("ASTROCORE_CONFIG")
		if confPath == "" {
			cfgErr = fmt.Errorf("environment variable ASTROCORE_CONFIG is missing or empty")
			return
		}
		v := viper.New()
		v.SetConfigName("conf")
		v.AddConfigPath(confPath)
		if err := v.ReadInConfig(); err != nil {
			cfgErr = fmt.Errorf("%s/conf.toml not found: %w", confPath, err)
			return
		}
		cfg = v
	})
	return cfg, cfgErr
}
