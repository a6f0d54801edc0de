package stream

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/stewi1014/hsstream/encio"
)

// DefaultBlockSize is the read cache capacity of a Buffered stream when Config.BlockSize is unset.
const DefaultBlockSize = 2048

// Policy selects what happens when a backend is asked for an operation it doesn't support.
type Policy int

const (
	// PolicyError returns an encio.Error wrapping encio.ErrUnsupported.
	PolicyError Policy = iota

	// PolicyPanic panics with the same error PolicyError would return.
	PolicyPanic

	// PolicyIgnore logs a warning and treats the operation as a no-op.
	// Ignored writes report the whole buffer as consumed, and ignored reads report io.EOF.
	PolicyIgnore
)

// String implements fmt.Stringer
func (p Policy) String() string {
	switch p {
	case PolicyError:
		return "error"
	case PolicyPanic:
		return "panic"
	case PolicyIgnore:
		return "ignore"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses the names returned by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "error":
		return PolicyError, nil
	case "panic":
		return PolicyPanic, nil
	case "ignore":
		return PolicyIgnore, nil
	default:
		return 0, fmt.Errorf("unknown unsupported-operation policy %q", s)
	}
}

// Config contains settings shared by streams and codecs.
// A nil *Config is valid anywhere one is accepted, and means DefaultConfig().
// Zero-valued fields are filled with their defaults.
type Config struct {
	// BlockSize is the read cache capacity of Buffered streams.
	BlockSize int

	// Unsupported chooses how backends react to unsupported operations.
	Unsupported Policy

	// Comment starts a comment that runs to EndLine in tokenised reads. Defaults to '#'.
	Comment byte

	// EndLine terminates lines in tokenised reads. Defaults to '\n'.
	EndLine byte

	// MaxToken limits the bytes kept from a single token or line. Zero means no limit.
	// Bytes past the limit are consumed and dropped.
	MaxToken int

	// Reporter receives the statistics of Buffered streams when they close.
	Reporter StatsReporter

	// Logger receives warnings and debug output. Defaults to encio.Logger().
	Logger *zap.Logger
}

// DefaultConfig returns a new Config with all defaults set.
func DefaultConfig() *Config {
	return &Config{
		BlockSize: DefaultBlockSize,
		Comment:   '#',
		EndLine:   '\n',
	}
}

// String returns a short description of the configuration for debugging.
func (c *Config) String() string {
	return fmt.Sprintf("Config(block: %d, unsupported: %v, comment: %q, eol: %q, max token: %d)",
		c.BlockSize, c.Unsupported, c.Comment, c.EndLine, c.MaxToken)
}

func (c *Config) copyAndFill() *Config {
	config := DefaultConfig()
	if c == nil {
		return config
	}

	*config = *c
	if config.BlockSize <= 0 {
		config.BlockSize = DefaultBlockSize
	}
	if config.Comment == 0 {
		config.Comment = '#'
	}
	if config.EndLine == 0 {
		config.EndLine = '\n'
	}
	return config
}

func (c *Config) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return encio.Logger()
}

// unsupported applies the policy for op on backend.
// A nil return means the policy is PolicyIgnore and the caller should carry on as a no-op.
func (c *Config) unsupported(backend, op string) error {
	err := encio.NewError(encio.ErrUnsupported, op+" is not supported by "+backend, backend+"."+op)

	switch c.Unsupported {
	case PolicyPanic:
		panic(err)
	case PolicyIgnore:
		c.logger().Warn("ignoring unsupported stream operation",
			zap.String("backend", backend),
			zap.String("op", op),
		)
		return nil
	default:
		return err
	}
}
