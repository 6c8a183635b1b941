package reading

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators is the ordered list of validators run on every decoded
	// payload. The first failure stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for the model response.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with the lenient validator chain and
// recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators:  DefaultValidators(false),
		MaxTokens:   8192,
		Temperature: 0.7,
	}
}
