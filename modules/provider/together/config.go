package together

// Config holds the configuration for the Together provider module.
type Config struct {
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	MaxTokens int    `yaml:"max_tokens"`
}

// defaults fills zero-valued fields with sensible defaults.
func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.together.xyz/v1"
	}
	if c.Model == "" {
		c.Model = "deepseek-ai/DeepSeek-R1-Distill-Llama-70B-free"
	}
}
