package bootstrap

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort     string        `mapstructure:"SERVER_PORT"`
	GrpcPort       string        `mapstructure:"GRPC_PORT"`
	EngineAddr     string        `mapstructure:"ENGINE_ADDR"`
	RedisUrl       string        `mapstructure:"REDIS_URL"`
	MongoUri       string        `mapstructure:"MONGO_URI"`
	MongoDatabase  string        `mapstructure:"MONGO_DATABASE"`
	IsLocalCors    bool          `mapstructure:"LOCAL_CORS"`
	PageLimitGames int           `mapstructure:"PAGE_LIMIT_GAMES"`
	SearchDepth    int           `mapstructure:"SEARCH_DEPTH"`
	BoardWidth     int           `mapstructure:"BOARD_WIDTH"`
	BoardHeight    int           `mapstructure:"BOARD_HEIGHT"`
	MaxBoardSide   int           `mapstructure:"MAX_BOARD_SIDE"`
	MaxSearchDepth int           `mapstructure:"MAX_SEARCH_DEPTH"`
	GameTTL        time.Duration `mapstructure:"GAME_TTL"`
}

var defaults = map[string]any{
	"SERVER_PORT":      ":8080",
	"GRPC_PORT":        ":8082",
	"ENGINE_ADDR":      "",
	"REDIS_URL":        "",
	"MONGO_URI":        "",
	"MONGO_DATABASE":   "connect4",
	"LOCAL_CORS":       false,
	"PAGE_LIMIT_GAMES": 20,
	"SEARCH_DEPTH":     5,
	"BOARD_WIDTH":      7,
	"BOARD_HEIGHT":     6,
	"MAX_BOARD_SIDE":   64,
	"MAX_SEARCH_DEPTH": 12,
	"GAME_TTL":         "24h",
}

// NewViper returns a viper instance with the defaults registered and the
// environment bound, ready for flags to be layered on top.
func NewViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	return v
}

// Setup reads cfgPath (a .env style file) when it exists; environment
// variables override the file and defaults fill the gaps.
func Setup(cfgPath string) (*Config, error) {
	return Load(NewViper(), cfgPath)
}

func Load(v *viper.Viper, cfgPath string) (*Config, error) {
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
