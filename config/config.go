package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultConfigYAML 内置默认配置
//
//go:embed config.default.yaml
var DefaultConfigYAML []byte

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Email     EmailConfig     `mapstructure:"email"`
	Inference InferenceConfig `mapstructure:"inference"`
	Report    ReportConfig    `mapstructure:"report"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        string `mapstructure:"port"`
	Mode        string `mapstructure:"mode"`
	BaseURL     string `mapstructure:"base_url"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb"`
}

// MaxUploadBytes 上传图片的大小上限（字节）
func (s ServerConfig) MaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return s.MaxUploadMB << 20
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	Charset      string `mapstructure:"charset"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// DSN 构建 MySQL 连接字符串
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.DBName, d.Charset)
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// EmailConfig 邮件配置
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// resolveEnabled 未显式配置 enabled 时，账号与密码齐全即启用
func (e *EmailConfig) resolveEnabled(explicit bool) {
	if explicit {
		return
	}
	e.Enabled = e.Username != "" && e.Password != ""
}

// InferenceConfig 推理服务配置（TensorFlow Serving 或 mock）
type InferenceConfig struct {
	Mock           bool          `mapstructure:"mock"`
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	ModelName      string        `mapstructure:"model_name"`
	SignatureName  string        `mapstructure:"signature_name"`
	InputName      string        `mapstructure:"input_name"`
	OutputName     string        `mapstructure:"output_name"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds"`
	Timeout        time.Duration `mapstructure:"-"`
}

// PredictURL TensorFlow Serving REST 预测地址
func (i InferenceConfig) PredictURL() string {
	return fmt.Sprintf("http://%s:%s/v1/models/%s:predict", i.Host, i.Port, i.ModelName)
}

// ReportConfig 报告配置
type ReportConfig struct {
	TempDir string `mapstructure:"temp_dir"`
	Brand   string `mapstructure:"brand"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// RateLimitConfig 限流配置，redis_url 为空时使用进程内计数
type RateLimitConfig struct {
	RedisURL        string        `mapstructure:"redis_url"`
	LoginAttempts   int           `mapstructure:"login_attempts"`
	AnalyzeRequests int           `mapstructure:"analyze_requests"`
	WindowSeconds   int           `mapstructure:"window_seconds"`
	Window          time.Duration `mapstructure:"-"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// 兼容旧版 Express 后端使用的环境变量名
var legacyEnv = map[string]string{
	"inference.host":  "TF_SERVING_HOST",
	"inference.port":  "TF_SERVING_PORT",
	"inference.mock":  "USE_MOCK",
	"email.username":  "EMAIL_USER",
	"email.password":  "EMAIL_PASSWORD",
	"server.base_url": "BACKEND_URL",
	"jwt.secret":      "JWT_SECRET",
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
)

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
// configPath: 可选的外部配置文件路径
func LoadConfig(configPath string) (*Config, error) {
	// .env 仅用于本地开发，不存在时忽略
	if err := godotenv.Load(); err == nil {
		log.Println("已加载 .env 文件")
	}

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("读取内置配置失败: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("警告: 无法读取指定配置文件 %s: %v", configPath, err)
		} else {
			log.Printf("已合并外部配置文件: %s", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/skinsight")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				log.Printf("警告: 合并外部配置失败: %v", err)
			} else {
				log.Printf("已合并外部配置文件: %s", externalViper.ConfigFileUsed())
			}
		}
	}

	v.SetEnvPrefix("SKINSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		envKey := "SKINSIGHT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, legacy); err != nil {
			return nil, fmt.Errorf("绑定环境变量 %s 失败: %w", legacy, err)
		}
	}

	if err := v.BindEnv("email.enabled", "SKINSIGHT_EMAIL_ENABLED"); err != nil {
		return nil, fmt.Errorf("绑定环境变量 SKINSIGHT_EMAIL_ENABLED 失败: %w", err)
	}
	emailExplicit := v.IsSet("email.enabled")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	cfg.applyDefaults()
	cfg.Email.resolveEnabled(emailExplicit)

	GlobalConfig = &cfg

	return &cfg, nil
}

// applyDefaults 补全派生字段与非法值
func (cfg *Config) applyDefaults() {
	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 24
	}
	cfg.JWT.ExpireTime = time.Duration(cfg.JWT.ExpireHours) * time.Hour

	if cfg.Inference.TimeoutSeconds <= 0 {
		cfg.Inference.TimeoutSeconds = 10
	}
	cfg.Inference.Timeout = time.Duration(cfg.Inference.TimeoutSeconds) * time.Second

	if cfg.RateLimit.WindowSeconds <= 0 {
		cfg.RateLimit.WindowSeconds = 60
	}
	cfg.RateLimit.Window = time.Duration(cfg.RateLimit.WindowSeconds) * time.Second

	if cfg.Report.Brand == "" {
		cfg.Report.Brand = "SkinSight AI"
	}
}

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}

// PrintConfig 打印当前配置（隐藏敏感信息）
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	log.Printf("当前配置:")
	log.Printf("  服务器: %s (模式: %s)", GlobalConfig.Server.Port, GlobalConfig.Server.Mode)
	log.Printf("  数据库: %s@%s:%s/%s",
		GlobalConfig.Database.Username,
		GlobalConfig.Database.Host,
		GlobalConfig.Database.Port,
		GlobalConfig.Database.DBName)
	log.Printf("  邮件服务: %v", GlobalConfig.Email.Enabled)
	if GlobalConfig.Inference.Mock {
		log.Printf("  推理服务: mock")
	} else {
		log.Printf("  推理服务: %s (超时 %s)", GlobalConfig.Inference.PredictURL(), GlobalConfig.Inference.Timeout)
	}
}
