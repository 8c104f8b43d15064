package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Game     GameConfig     `yaml:"game"`
	Security SecurityConfig `yaml:"security"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
type GameConfig struct {
	ChoiceWindow    int `yaml:"choice_window"`     // 出拳倒计时（秒）
	RoundDelay      int `yaml:"round_delay"`       // 两轮之间的间隔（秒）
	RedirectDelay   int `yaml:"redirect_delay"`    // 游戏结束到跳转的延迟（秒）
	MaxRounds       int `yaml:"max_rounds"`        // 轮次上限，防止无限重赛
	MaxPlayersLimit int `yaml:"max_players_limit"` // 单个房间允许的人数上限
	RoomTimeout     int `yaml:"room_timeout"`      // 房间等待超时（分钟）
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	MessageRate int `yaml:"message_rate"` // 单连接每秒消息数上限
}

// RoundDelayDuration 返回两轮之间的间隔时长
func (c *GameConfig) RoundDelayDuration() time.Duration {
	return time.Duration(c.RoundDelay) * time.Second
}

// RedirectDelayDuration 返回游戏结束后的跳转延迟时长
func (c *GameConfig) RedirectDelayDuration() time.Duration {
	return time.Duration(c.RedirectDelay) * time.Second
}

// RoomTimeoutDuration 返回房间等待超时时长
func (c *GameConfig) RoomTimeoutDuration() time.Duration {
	return time.Duration(c.RoomTimeout) * time.Minute
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults 设置默认值
func (cfg *Config) applyDefaults() {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3005
	}
	if cfg.Server.MaxConnections == 0 {
		cfg.Server.MaxConnections = 1000
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Game.ChoiceWindow == 0 {
		cfg.Game.ChoiceWindow = 5
	}
	if cfg.Game.RoundDelay == 0 {
		cfg.Game.RoundDelay = 4
	}
	if cfg.Game.RedirectDelay == 0 {
		cfg.Game.RedirectDelay = 10
	}
	if cfg.Game.MaxRounds == 0 {
		cfg.Game.MaxRounds = 50
	}
	if cfg.Game.MaxPlayersLimit == 0 {
		cfg.Game.MaxPlayersLimit = 16
	}
	if cfg.Game.RoomTimeout == 0 {
		cfg.Game.RoomTimeout = 10
	}
	if cfg.Security.MessageRate == 0 {
		cfg.Security.MessageRate = 20
	}
}
