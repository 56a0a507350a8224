package config

import "os"

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// Narrative is for turning a consolidated analysis into prose
	// (quality over speed, runs once per query)
	Narrative string `json:"narrative"`

	// QueryUnderstanding is for parsing a free-text question into a
	// structured query (needs to be fast, runs per request)
	QueryUnderstanding string `json:"queryUnderstanding"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string       `json:"-"` // Never serialize
	BaseURL   string       `json:"baseUrl"`
	Models    GeminiModels `json:"models"`
	TimeoutMS int          `json:"timeoutMs"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		Models: GeminiModels{
			Narrative:          getEnv("GEMINI_MODEL_NARRATIVE", "gemini-2.0-flash"),
			QueryUnderstanding: getEnv("GEMINI_MODEL_QUERY", "gemini-2.5-flash-preview-05-20"),
		},
		TimeoutMS: 10000, // 10 second default timeout
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}
