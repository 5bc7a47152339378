package protocol

import (
	"fmt"
	"sync"

	"github.com/hupe1980/teammesh/logging"
	"github.com/hupe1980/teammesh/message"
)

// ProtocolStatus is a point-in-time snapshot of one conversation.
type ProtocolStatus struct {
	Kind         string
	State        State
	Participants []string
	MessageCount int
	NextActions  []string
}

// Validator owns the live conversations and checks every outbound message
// against them. It is safe for concurrent use; all protocol access is
// serialized through its mutex.
type Validator struct {
	mu       sync.Mutex
	active   map[string]*Protocol
	registry Registry
	logger   logging.Logger
}

// ValidatorOptions configures a Validator.
type ValidatorOptions struct {
	// Registry maps opening message types to protocol factories.
	// Defaults to DefaultRegistry.
	Registry Registry
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// NewValidator creates a Validator with optional overrides.
func NewValidator(optFns ...func(o *ValidatorOptions)) *Validator {
	opts := ValidatorOptions{
		Registry: DefaultRegistry(),
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Validator{
		active:   make(map[string]*Protocol),
		registry: opts.Registry,
		logger:   opts.Logger,
	}
}

// ValidateMessage runs the full validation pipeline for one outbound
// message: the message's own Validate first, then resolution of the owning
// conversation and its sequencing rules. Intrinsic errors stop the pipeline
// before any conversation is touched. Everything comes back as one merged
// ValidationResult; errors block the send, warnings ride along.
//
// When no registered protocol kind covers the message type the message
// passes with a warning, matching the open-world posture of the router.
func (v *Validator) ValidateMessage(msg message.Message) message.ValidationResult {
	result := msg.Validate()
	if !result.OK() {
		// broken messages never reach a conversation
		return result
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	proto := v.resolveLocked(msg)
	if proto == nil {
		result.AddWarning("no protocol handler for message type %s", msg.Type())
		return result
	}

	seq := proto.AddMessage(msg)
	result.Merge(seq)
	if seq.OK() {
		v.logger.Debug("protocol accepted message", "protocol_id", proto.ID(), "message_id", msg.ID(), "state", proto.State().String())
	} else {
		v.logger.Warn("protocol rejected message", "protocol_id", proto.ID(), "message_id", msg.ID(), "errors", seq.Errors)
	}
	return result
}

// resolveLocked finds the conversation a message belongs to, or creates one.
// Resolution order: an existing protocol already holding the message's
// correlation id, then any open protocol whose CanAccept approves the type,
// then a fresh protocol from the registry. Correlation ids are the sanctioned
// way to target a specific conversation. Caller must hold the mutex.
func (v *Validator) resolveLocked(msg message.Message) *Protocol {
	if cid := msg.CorrelationID(); cid != "" {
		for _, proto := range v.active {
			for _, prior := range proto.Messages() {
				if prior.CorrelationID() == cid {
					return proto
				}
			}
		}
	}

	for _, proto := range v.active {
		if proto.CanAccept(msg) {
			return proto
		}
	}

	factory, ok := v.registry[msg.Type()]
	if !ok {
		return nil
	}

	id := msg.ID()
	if len(id) > 8 {
		id = id[:8]
	}
	protocolID := fmt.Sprintf("%s_%s", msg.Type(), id)
	proto := factory(protocolID, msg.Sender())
	v.active[protocolID] = proto
	v.logger.Info("created new protocol", "protocol_id", protocolID, "initiator", msg.Sender().String())
	return proto
}

// Get returns a live conversation by id.
func (v *Validator) Get(protocolID string) (*Protocol, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	p, ok := v.active[protocolID]
	return p, ok
}

// ActiveProtocols returns a snapshot copy of the live conversation map.
func (v *Validator) ActiveProtocols() map[string]*Protocol {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]*Protocol, len(v.active))
	for id, p := range v.active {
		out[id] = p
	}
	return out
}

// ActiveCount returns the number of live conversations.
func (v *Validator) ActiveCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.active)
}

// CleanupCompleted purges completed conversations and returns how many were
// removed. Failed and cancelled protocols are kept for inspection; only the
// owning application decides when those go.
func (v *Validator) CleanupCompleted() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	var removed int
	for id, proto := range v.active {
		if proto.IsComplete() {
			delete(v.active, id)
			removed++
			v.logger.Info("cleaned up completed protocol", "protocol_id", id)
		}
	}
	return removed
}

// Status reports state, participants, message count and next expected
// actions for every live conversation.
func (v *Validator) Status() map[string]ProtocolStatus {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make(map[string]ProtocolStatus, len(v.active))
	for id, proto := range v.active {
		participants := proto.Participants()
		names := make([]string, len(participants))
		for i, r := range participants {
			names[i] = r.String()
		}
		out[id] = ProtocolStatus{
			Kind:         proto.Kind(),
			State:        proto.State(),
			Participants: names,
			MessageCount: len(proto.Messages()),
			NextActions:  proto.NextActions(),
		}
	}
	return out
}
