package aad

import "log/slog"

// Config controls tape buffer sizing and logging.
type Config struct {
	StatementCapacity int          // Initial capacity of the statement log.
	OperandCapacity   int          // Initial capacity of the operand/partial log.
	SlotCapacity      int          // Initial capacity of the adjoint store.
	Logger            *slog.Logger // Lifecycle logger; nil means slog.Default().
}

// DefaultConfig returns buffer sizes suited to valuations of a few thousand operations.
func DefaultConfig() Config {
	return Config{
		StatementCapacity: 1 << 12,
		OperandCapacity:   1 << 13,
		SlotCapacity:      1 << 12,
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
