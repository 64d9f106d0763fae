package config

import (
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	LLM        LLMConfig        `yaml:"llm"`
	Data       DataConfig       `yaml:"data"`
	Generation GenerationConfig `yaml:"generation"`
}

type ServerConfig struct {
	Port         string   `yaml:"port"`
	Mode         string   `yaml:"mode"` // debug, release
	AllowOrigins []string `yaml:"allow_origins"`
}

type DatabaseConfig struct {
	Type string `yaml:"type"` // sqlite, mysql
	DSN  string `yaml:"dsn"`
}

type LLMConfig struct {
	APIURL    string `yaml:"api_url"`
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
	// RequestsPerSecond 和 Burst 控制对模型的调用节奏
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	Timeout           time.Duration `yaml:"timeout"`
}

type DataConfig struct {
	Dir string `yaml:"dir"`
}

// GenerationConfig 章节生成参数
type GenerationConfig struct {
	DocxWordCount        int `yaml:"docx_word_count"`
	PptxWordCount        int `yaml:"pptx_word_count"`
	ContextLimit         int `yaml:"context_limit"`          // 全量生成时累计上下文上限
	ContextSnippet       int `yaml:"context_snippet"`        // 全量生成时每节截取长度
	RegenerateNeighbours int `yaml:"regenerate_neighbours"`  // 单节重生成时参考的前序章节数
	RegenerateSnippet    int `yaml:"regenerate_snippet"`     // 单节重生成时每节截取长度
}

var (
	cfg  *Config
	once sync.Once
)

func GetConfig() *Config {
	once.Do(func() {
		cfg = loadConfig()
	})
	return cfg
}

// Default 返回未读取任何文件与环境变量的默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			Mode:         "debug",
			AllowOrigins: []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			DSN:  "./data/docai.db",
		},
		LLM: LLMConfig{
			APIURL:            "https://api.openai.com/v1",
			Model:             "gpt-4o",
			MaxTokens:         4096,
			RequestsPerSecond: 2,
			Burst:             1,
			Timeout:           2 * time.Minute,
		},
		Data: DataConfig{
			Dir: "./data",
		},
		Generation: GenerationConfig{
			DocxWordCount:        300,
			PptxWordCount:        150,
			ContextLimit:         1000,
			ContextSnippet:       200,
			RegenerateNeighbours: 2,
			RegenerateSnippet:    150,
		},
	}
}

func loadConfig() *Config {
	config := Default()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err == nil {
		parsed := *config
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			klog.Warningf("解析配置文件失败，使用默认配置: path=%s, error=%v", configPath, err)
		} else {
			*config = parsed
		}
	}

	applyEnv(config)
	return config
}

// applyEnv 环境变量优先级高于配置文件
func applyEnv(config *Config) {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.LLM.APIURL = baseURL
	}
	if model := os.Getenv("OPENAI_MODEL_NAME"); model != "" {
		config.LLM.Model = model
	}

	if dbType := os.Getenv("DB_TYPE"); dbType != "" {
		config.Database.Type = dbType
	}
	if dbDSN := os.Getenv("DB_DSN"); dbDSN != "" {
		config.Database.DSN = dbDSN
	}

	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		config.Data.Dir = dataDir
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		config.Server.Port = port
	}
	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		config.Server.AllowOrigins = strings.Split(clientURL, ",")
	}
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
