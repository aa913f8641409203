package llm

import "github.com/tmc/langchaingo/llms"

// Option customises the client.
type Option func(*Client)

// WithCallOptions sets langchaingo call options applied to every generation,
// typically llms.WithTemperature or llms.WithMaxTokens.
func WithCallOptions(options ...llms.CallOption) Option {
	return func(c *Client) {
		c.callOptions = append(c.callOptions, options...)
	}
}
