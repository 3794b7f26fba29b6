package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rl1809/pos-journal/internal/core/domain"
)

// ErrMalformedState is returned alongside an empty state when a stored blob
// cannot be decoded.
var ErrMalformedState = errors.New("malformed state blob")

func encodeState(state domain.State) ([]byte, error) {
	state = normalize(state)
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

func decodeState(data []byte) (domain.State, error) {
	var state domain.State
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.EmptyState(), fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	return normalize(state), nil
}

func normalize(state domain.State) domain.State {
	if state.Cart == nil {
		state.Cart = []domain.CartLine{}
	}
	if state.Sales == nil {
		state.Sales = []domain.Sale{}
	}
	return state
}
