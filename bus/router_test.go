package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/teammesh/config"
	"github.com/hupe1980/teammesh/message"
	"github.com/hupe1980/teammesh/role"
)

func TestRouter_DefaultRoutesExcludeSender(t *testing.T) {
	r := NewRouter(config.DefaultRoutes(), nil)

	plan := message.NewSprintPlanning(role.ScrumMaster)
	dests := r.Destinations(plan)

	// sprint planning fans out to product owner, scrum master and tech
	// lead; the sending scrum master is excluded
	assert.Equal(t, []role.AgentRole{role.ProductOwner, role.TechLead}, dests)
}

func TestRouter_ExplicitRecipientShortCircuits(t *testing.T) {
	r := NewRouter(config.DefaultRoutes(), nil)

	msg := message.NewTaskAssignment(role.TechLead)
	msg.SetRecipient(role.BackendDev)

	assert.Equal(t, []role.AgentRole{role.BackendDev}, r.Destinations(msg))
}

func TestRouter_SelfAddressedYieldsNothing(t *testing.T) {
	r := NewRouter(config.DefaultRoutes(), nil)

	msg := message.NewStandupUpdate(role.ScrumMaster)
	msg.SetRecipient(role.ScrumMaster)

	assert.Empty(t, r.Destinations(msg))
}

func TestRouter_CustomRoutesAppendInOrder(t *testing.T) {
	r := NewRouter(config.DefaultRoutes(), nil)

	r.AddRoute(config.Route{
		Source:      role.QAEngineer,
		Destination: role.TechLead,
		MessageType: message.TypeQualityReport,
	})
	r.AddRoute(config.Route{
		Source:      role.QAEngineer,
		Destination: role.ScrumMaster,
		MessageType: message.TypeQualityReport,
	})

	report := message.NewQualityReport(role.QAEngineer)
	assert.Equal(t, []role.AgentRole{role.TechLead, role.ScrumMaster}, r.Destinations(report))
}

func TestRouter_CustomRouteSourceFilter(t *testing.T) {
	r := NewRouter(nil, []config.Route{{
		Source:      role.BackendDev,
		Destination: role.TechLead,
		MessageType: message.TypeCoordinationRequest,
	}})

	fromBackend := message.NewCoordinationRequest(role.BackendDev)
	assert.Equal(t, []role.AgentRole{role.TechLead}, r.Destinations(fromBackend))

	fromFrontend := message.NewCoordinationRequest(role.FrontendDev)
	assert.Empty(t, r.Destinations(fromFrontend))
}

func TestRouter_DuplicatesCollapse(t *testing.T) {
	r := NewRouter(config.DefaultRoutes(), nil)
	r.AddRoute(config.Route{
		Source:      role.BackendDev,
		Destination: role.ScrumMaster,
		MessageType: message.TypeStandupUpdate,
	})

	// scrum master is already the default standup destination; the custom
	// route must not produce a second delivery
	update := message.NewStandupUpdate(role.BackendDev)
	assert.Equal(t, []role.AgentRole{role.ScrumMaster}, r.Destinations(update))
}

func TestRouter_RemoveRoute(t *testing.T) {
	r := NewRouter(nil, nil)
	id := r.AddRoute(config.Route{
		Source:      role.BackendDev,
		Destination: role.TechLead,
		MessageType: message.TypeCoordinationRequest,
	})

	route, ok := r.Route(id)
	require.True(t, ok)
	assert.Equal(t, role.TechLead, route.Destination)

	assert.True(t, r.RemoveRoute(id))
	assert.False(t, r.RemoveRoute(id))

	msg := message.NewCoordinationRequest(role.BackendDev)
	assert.Empty(t, r.Destinations(msg))
}
