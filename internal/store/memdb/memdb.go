package memdb

const (
	// DefaultCapacity the default number of records kept in the history.
	DefaultCapacity = 100
)

type config struct {
	capacity int
}

type Option func(*config)

// WithCapacity allows us to specify how many records the history keeps.
// Non positive values are ignored.
func WithCapacity(capacity int) Option {
	return func(c *config) {
		if capacity > 0 {
			c.capacity = capacity
		}
	}
}
