// Package config 在启动时一次性构建配置，业务包只接收显式传入的值，不再自行读取环境变量。
package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	realflow "github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 是服务的全部配置。
type Config struct {
	Host             string `yaml:"host"`
	Port             int    `yaml:"port"`
	BasePath         string `yaml:"base_path"`
	RecordsDir       string `yaml:"records_dir"`
	ReadToken        string `yaml:"read_token"`
	TokenSource      string `yaml:"token_source"` // static | file | auto
	TokenFile        string `yaml:"token_file"`
	MaskPII          bool   `yaml:"mask_pii"`
	StrictLeadFields bool   `yaml:"strict_lead_fields"`
	SerializeWrites  bool   `yaml:"serialize_writes"`
	ListLimit        int    `yaml:"list_limit"`
}

// fileConfig 用指针区分 YAML 中“未出现”与“零值”。
type fileConfig struct {
	Host             *string `yaml:"host"`
	Port             *int    `yaml:"port"`
	BasePath         *string `yaml:"base_path"`
	RecordsDir       *string `yaml:"records_dir"`
	ReadToken        *string `yaml:"read_token"`
	TokenSource      *string `yaml:"token_source"`
	TokenFile        *string `yaml:"token_file"`
	MaskPII          *bool   `yaml:"mask_pii"`
	StrictLeadFields *bool   `yaml:"strict_lead_fields"`
	SerializeWrites  *bool   `yaml:"serialize_writes"`
	ListLimit        *int    `yaml:"list_limit"`
}

// Default 返回内置默认值。
func Default() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            realflow.DefaultPort,
		BasePath:        "/",
		RecordsDir:      realflow.DefaultRecordsDir,
		TokenSource:     "static",
		SerializeWrites: true,
		ListLimit:       realflow.DefaultListLimit,
	}
}

// Addr 返回监听地址。
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate 校验配置取值。
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.ListLimit <= 0 {
		return fmt.Errorf("invalid list limit: %d", c.ListLimit)
	}
	if strings.TrimSpace(c.RecordsDir) == "" {
		return fmt.Errorf("records dir is required")
	}
	switch strings.ToLower(strings.TrimSpace(c.TokenSource)) {
	case "", "static", "auto":
	case "file":
		if strings.TrimSpace(c.TokenFile) == "" {
			return fmt.Errorf("token_source=file requires token_file")
		}
	default:
		return fmt.Errorf("unsupported token source: %s", c.TokenSource)
	}
	return nil
}

// Load 按 默认值 < .env < 环境变量 < YAML 文件(-config) < 显式 flag 的优先级构建配置。
// args 不含程序名。
func Load(args []string) (*Config, error) {
	// .env 不存在是正常情况（生产环境直接注入变量）
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("realflow-server", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file")
	host := fs.String("host", cfg.Host, "listen host")
	port := fs.Int("port", cfg.Port, "listen port (env PORT)")
	basePath := fs.String("base-path", cfg.BasePath, "route prefix")
	recordsDir := fs.String("records-dir", cfg.RecordsDir, "directory for per-call JSON records")
	readToken := fs.String("read-token", cfg.ReadToken, "token required by GET /webhook (empty = disabled)")
	tokenSource := fs.String("token-source", cfg.TokenSource, "read token source: static|file|auto")
	tokenFile := fs.String("token-file", cfg.TokenFile, "read token file (token_source=file|auto)")
	maskPII := fs.Bool("mask-pii", cfg.MaskPII, "mask phone/email in read views")
	strict := fs.Bool("strict-lead-fields", cfg.StrictLeadFields, "reject Set_Lead_Field events without field/value")
	serialize := fs.Bool("serialize-writes", cfg.SerializeWrites, "serialize read-modify-write per call id")
	listLimit := fs.Int("list-limit", cfg.ListLimit, "max records in the list view")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *configPath != "" {
		if err := mergeFile(*configPath, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = *host
		case "port":
			cfg.Port = *port
		case "base-path":
			cfg.BasePath = *basePath
		case "records-dir":
			cfg.RecordsDir = *recordsDir
		case "read-token":
			cfg.ReadToken = *readToken
		case "token-source":
			cfg.TokenSource = *tokenSource
		case "token-file":
			cfg.TokenFile = *tokenFile
		case "mask-pii":
			cfg.MaskPII = *maskPII
		case "strict-lead-fields":
			cfg.StrictLeadFields = *strict
		case "serialize-writes":
			cfg.SerializeWrites = *serialize
		case "list-limit":
			cfg.ListLimit = *listLimit
		}
	})

	cfg.ReadToken = strings.TrimSpace(cfg.ReadToken)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("HOST"); ok && strings.TrimSpace(v) != "" {
		cfg.Host = strings.TrimSpace(v)
	}
	if v, ok := lookup("PORT"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = n
	}
	if v, ok := lookup("BASE_PATH"); ok {
		cfg.BasePath = v
	}
	if v, ok := lookup("RECORDS_DIR"); ok && strings.TrimSpace(v) != "" {
		cfg.RecordsDir = v
	}
	if v, ok := lookup("READ_TOKEN"); ok {
		cfg.ReadToken = strings.TrimSpace(v)
	}
	if v, ok := lookup("TOKEN_SOURCE"); ok && strings.TrimSpace(v) != "" {
		cfg.TokenSource = v
	}
	if v, ok := lookup("TOKEN_FILE"); ok {
		cfg.TokenFile = v
	}
	if v, ok := lookup("MASK_PII"); ok {
		cfg.MaskPII = ParseBool(v)
	}
	if v, ok := lookup("STRICT_LEAD_FIELDS"); ok {
		cfg.StrictLeadFields = ParseBool(v)
	}
	if v, ok := lookup("SERIALIZE_WRITES"); ok {
		cfg.SerializeWrites = ParseBool(v)
	}
	if v, ok := lookup("LIST_LIMIT"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid LIST_LIMIT %q: %w", v, err)
		}
		cfg.ListLimit = n
	}
	return nil
}

func mergeFile(path string, base *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return errors.New("config file is empty")
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}
	if fc.Host != nil {
		base.Host = *fc.Host
	}
	if fc.Port != nil {
		base.Port = *fc.Port
	}
	if fc.BasePath != nil {
		base.BasePath = *fc.BasePath
	}
	if fc.RecordsDir != nil {
		base.RecordsDir = *fc.RecordsDir
	}
	if fc.ReadToken != nil {
		base.ReadToken = *fc.ReadToken
	}
	if fc.TokenSource != nil {
		base.TokenSource = *fc.TokenSource
	}
	if fc.TokenFile != nil {
		base.TokenFile = *fc.TokenFile
	}
	if fc.MaskPII != nil {
		base.MaskPII = *fc.MaskPII
	}
	if fc.StrictLeadFields != nil {
		base.StrictLeadFields = *fc.StrictLeadFields
	}
	if fc.SerializeWrites != nil {
		base.SerializeWrites = *fc.SerializeWrites
	}
	if fc.ListLimit != nil {
		base.ListLimit = *fc.ListLimit
	}
	return nil
}

// ParseBool 接受 1/true/yes（不区分大小写），其余均为 false。
func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
