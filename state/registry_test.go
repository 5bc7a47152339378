package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/teammesh/message"
	"github.com/hupe1980/teammesh/role"
)

func TestRegistry_CreateAndGet(t *testing.T) {
	reg := NewRegistry(nil)

	m := reg.Create(role.BackendDev, "backend-1")
	require.NotNil(t, m)
	assert.Equal(t, StateIdle, m.CurrentState())

	got, err := reg.Get("backend-1")
	require.NoError(t, err)
	assert.Same(t, m, got)
}

func TestRegistry_CreateIdempotent(t *testing.T) {
	reg := NewRegistry(nil)

	first := reg.Create(role.BackendDev, "backend-1")
	second := reg.Create(role.BackendDev, "backend-1")
	assert.Same(t, first, second)
	assert.Len(t, reg.All(), 1)
}

func TestRegistry_UnknownAgent(t *testing.T) {
	reg := NewRegistry(nil)

	_, err := reg.Get("ghost")
	assert.ErrorIs(t, err, ErrUnknownAgent)
}

func TestRegistry_CreateWithConfig(t *testing.T) {
	reg := NewRegistry(nil)

	cfg := DeveloperConfig()
	cfg.MessageStates[message.TypeQualityReport] = []AgentState{StateIdle}
	m := reg.CreateWithConfig(role.BackendDev, "backend-1", cfg)

	assert.True(t, m.CanHandleMessage(message.TypeQualityReport))
}

func TestRegistry_TeamSnapshot(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Create(role.BackendDev, "backend-1")
	dev2 := reg.Create(role.FrontendDev, "frontend-1")
	require.True(t, dev2.TransitionTo(StateWorking, "task_assigned", nil))

	snapshot := reg.TeamSnapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, StateIdle, snapshot["backend-1"].CurrentState)
	assert.Equal(t, StateWorking, snapshot["frontend-1"].CurrentState)
	assert.Equal(t, role.FrontendDev, snapshot["frontend-1"].Role)
}
