package config

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	GenAI struct {
		BaseURL        string `yaml:"baseUrl"`
		ChatModel      string `yaml:"chatModel"`
		EmbeddingModel string `yaml:"embeddingModel"`
		ApiKey         string `yaml:"apiKey"`
		// InsecureSkipVerify disables certificate verification for the
		// internal endpoint. Security-relevant; leave false unless the
		// endpoint presents an untrusted certificate on purpose.
		InsecureSkipVerify bool `yaml:"insecureSkipVerify"`
	} `yaml:"genai"`

	Eval struct {
		PromptCharBudget  int `yaml:"promptCharBudget"`
		PreviewChars      int `yaml:"previewChars"`
		PdfMinTextLen     int `yaml:"pdfMinTextLen"`
		BatchPauseSeconds int `yaml:"batchPauseSeconds"`
	} `yaml:"eval"`

	Rag struct {
		IndexDir     string `yaml:"indexDir"`
		ChunkSize    int    `yaml:"chunkSize"`
		ChunkOverlap int    `yaml:"chunkOverlap"`
		TopK         int    `yaml:"topK"`
	} `yaml:"rag"`
}

// LoadConfig reads the configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.GenAI.ChatModel == "" {
		c.GenAI.ChatModel = "azure/genailab-maas-gpt-4o"
	}
	if c.GenAI.EmbeddingModel == "" {
		c.GenAI.EmbeddingModel = "azure/genailab-maas-text-embedding-3-large"
	}
	if c.Eval.PromptCharBudget == 0 {
		c.Eval.PromptCharBudget = 20000
	}
	if c.Eval.PreviewChars == 0 {
		c.Eval.PreviewChars = 4000
	}
	if c.Eval.PdfMinTextLen == 0 {
		c.Eval.PdfMinTextLen = 20
	}
	if c.Eval.BatchPauseSeconds == 0 {
		c.Eval.BatchPauseSeconds = 1
	}
	if c.Rag.IndexDir == "" {
		c.Rag.IndexDir = "./chroma_index"
	}
	if c.Rag.ChunkSize == 0 {
		c.Rag.ChunkSize = 1000
	}
	if c.Rag.ChunkOverlap == 0 {
		c.Rag.ChunkOverlap = 200
	}
	if c.Rag.TopK == 0 {
		c.Rag.TopK = 5
	}
}
