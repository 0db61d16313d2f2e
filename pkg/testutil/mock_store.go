package testutil

import (
	"github.com/stretchr/testify/mock"

	"github.com/arthur-debert/confguard/pkg/types"
)

// MockProjectStore is a testify mock of types.ProjectStore
type MockProjectStore struct {
	mock.Mock
}

// Load implements types.ProjectStore
func (m *MockProjectStore) Load(sourceDir string) (types.ProjectState, error) {
	args := m.Called(sourceDir)
	return args.Get(0).(types.ProjectState), args.Error(1)
}

// Save implements types.ProjectStore
func (m *MockProjectStore) Save(state types.ProjectState) error {
	args := m.Called(state)
	return args.Error(0)
}

// MemoryProjectStore keeps project states in memory and records every save
type MemoryProjectStore struct {
	States map[string]types.ProjectState
	Saves  []types.ProjectState
}

// NewMemoryProjectStore returns a store seeded with states
func NewMemoryProjectStore(states ...types.ProjectState) *MemoryProjectStore {
	s := &MemoryProjectStore{States: make(map[string]types.ProjectState)}
	for _, st := range states {
		s.States[st.SourceDir] = st.Clone()
	}
	return s
}

// Load implements types.ProjectStore
func (s *MemoryProjectStore) Load(sourceDir string) (types.ProjectState, error) {
	return s.States[sourceDir].Clone(), nil
}

// Save implements types.ProjectStore
func (s *MemoryProjectStore) Save(state types.ProjectState) error {
	s.States[state.SourceDir] = state.Clone()
	s.Saves = append(s.Saves, state.Clone())
	return nil
}

// Last returns the most recently saved state
func (s *MemoryProjectStore) Last() types.ProjectState {
	if len(s.Saves) == 0 {
		return types.ProjectState{}
	}
	return s.Saves[len(s.Saves)-1]
}
