package genesis

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	json "github.com/goccy/go-json"
)

// ParseError is a fixture error with a source position.
type ParseError struct {
	Message string
	Pos     token.Pos
}

func (e *ParseError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// LoadCUE reads and parses a CUE fixture file.
func LoadCUE(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return parseCUE(data, path)
}

// ParseCUE parses a CUE fixture. The fixture must evaluate to a concrete
// value with a top-level "pallets" struct.
func ParseCUE(data []byte) (*Config, error) {
	return parseCUE(data, "fixture.cue")
}

func parseCUE(data []byte, filename string) (*Config, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	encoded, err := v.MarshalJSON()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var cfg Config
	if err := json.Unmarshal(encoded, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode CUE fixture: %w", err)
	}
	if cfg.Pallets == nil {
		cfg.Pallets = map[string]map[string]json.RawMessage{}
	}
	return &cfg, nil
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &ParseError{Message: first.Error(), Pos: positions[0]}
	}
	return err
}
