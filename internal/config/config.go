package config

import "time"

// Config is the top-level application configuration.
type Config struct {
	Service   ServiceConfig   `mapstructure:"service"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Run       RunConfig       `mapstructure:"run"`
	Index     IndexConfig     `mapstructure:"index"`
	Docs      DocsConfig      `mapstructure:"docs"`
}

// ServiceConfig holds credentials and endpoint for the Assistants API.
type ServiceConfig struct {
	APIKey string `mapstructure:"api_key"`
	// Endpoint selects an Azure OpenAI resource; empty targets api.openai.com.
	Endpoint   string `mapstructure:"endpoint"`
	APIVersion string `mapstructure:"api_version"`
}

// AssistantConfig describes the assistant created at session start.
type AssistantConfig struct {
	Name         string `mapstructure:"name"`
	Deployment   string `mapstructure:"deployment"`
	Instructions string `mapstructure:"instructions"`

	// VectorStoreID binds an existing index; TempFiles builds a transient
	// one before the session starts. TempFiles wins when both are set.
	VectorStoreID string   `mapstructure:"vector_store_id"`
	TempFiles     []string `mapstructure:"temp_files"`
}

// RunConfig tunes the run polling loop.
type RunConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxWait      time.Duration `mapstructure:"max_wait"`
}

// IndexConfig tunes document ingestion.
type IndexConfig struct {
	PollInterval      time.Duration `mapstructure:"poll_interval"`
	MaxWait           time.Duration `mapstructure:"max_wait"`
	UploadConcurrency int           `mapstructure:"upload_concurrency"`
}

// DocsConfig controls locally generated loan documents.
type DocsConfig struct {
	Dir string `mapstructure:"dir"`
}
