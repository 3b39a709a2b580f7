package config

import "github.com/spf13/viper"

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Telegram struct {
		Token          string
		PollTimeoutSec int `mapstructure:"poll_timeout_sec"`
	} `mapstructure:"telegram"`

	SMTP struct {
		Host     string
		Port     int
		Login    string
		Password string
		Receiver string
	} `mapstructure:"smtp"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	// Позже можно будет переопределять через ENV (APP_*), если надо
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	v.SetDefault("telegram.poll_timeout_sec", 30)
	v.SetDefault("http.addr", ":8080")

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
