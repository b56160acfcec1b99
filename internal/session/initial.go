package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nao1215/scamscan/internal/model"
)

// ErrInvalidInitialState is returned when the initial state cannot be parsed.
var ErrInvalidInitialState = errors.New("invalid initial state")

// InitialState pre-populates a session at startup, e.g. with a result
// rendered by a server before the interactive front end took over.
// The wire shape is {"hasResult": bool, ...ScanResult fields}.
type InitialState struct {
	HasResult bool
	Result    model.ScanResult
}

// UnmarshalJSON decodes the flat {hasResult, ...ScanResult} object.
func (s *InitialState) UnmarshalJSON(data []byte) error {
	var flag struct {
		HasResult bool `json:"hasResult"`
	}
	if err := json.Unmarshal(data, &flag); err != nil {
		return err
	}

	var result model.ScanResult
	if flag.HasResult {
		if err := json.Unmarshal(data, &result); err != nil {
			return err
		}
	}

	s.HasResult = flag.HasResult
	s.Result = result
	return nil
}

// LoadInitialState parses an initial state from r.
func LoadInitialState(r io.Reader) (*InitialState, error) {
	var st InitialState
	if err := json.NewDecoder(r).Decode(&st); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInitialState, err)
	}
	return &st, nil
}

// LoadInitialStateFile parses an initial state from the named file.
func LoadInitialStateFile(path string) (*InitialState, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by the user
	if err != nil {
		return nil, fmt.Errorf("failed to open initial state: %w", err)
	}
	defer f.Close()

	return LoadInitialState(f)
}
