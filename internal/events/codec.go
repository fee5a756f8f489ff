// Package events implements contracts.Publisher on top of pluggable sinks.
package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/yungbote/workstation-backend/internal/domain/contracts"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const EnvelopeVersion = 1

// Envelope is the wire and storage form of an event.
type Envelope struct {
	Version    int                 `json:"version"`
	Type       contracts.EventKind `json:"type"`
	ContractID uuid.UUID           `json:"contract_id"`
	OccurredAt time.Time           `json:"occurred_at"`
	Payload    jsoniter.RawMessage `json:"payload"`
}

func NewEnvelope(e contracts.Event) (Envelope, error) {
	if e == nil {
		return Envelope{}, fmt.Errorf("nil event")
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", e.Kind(), err)
	}
	return Envelope{
		Version:    EnvelopeVersion,
		Type:       e.Kind(),
		ContractID: e.Subject(),
		OccurredAt: e.Time().UTC(),
		Payload:    payload,
	}, nil
}

func Encode(e contracts.Event) ([]byte, error) {
	env, err := NewEnvelope(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

func Decode(raw []byte) (contracts.Event, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Version != EnvelopeVersion {
		return nil, fmt.Errorf("unsupported envelope version %d", env.Version)
	}
	return decodePayload(env.Type, env.Payload)
}

func decodePayload(kind contracts.EventKind, payload []byte) (contracts.Event, error) {
	var (
		e   contracts.Event
		err error
	)
	switch kind {
	case contracts.KindContractCreated:
		var v contracts.ContractCreated
		err = json.Unmarshal(payload, &v)
		e = v
	case contracts.KindClauseAdded:
		var v contracts.ClauseAdded
		err = json.Unmarshal(payload, &v)
		e = v
	case contracts.KindContractActivated:
		var v contracts.ContractActivated
		err = json.Unmarshal(payload, &v)
		e = v
	case contracts.KindContractSigned:
		var v contracts.ContractSigned
		err = json.Unmarshal(payload, &v)
		e = v
	case contracts.KindReceiptUpdated:
		var v contracts.ReceiptUpdated
		err = json.Unmarshal(payload, &v)
		e = v
	case contracts.KindContractFinished:
		var v contracts.ContractFinished
		err = json.Unmarshal(payload, &v)
		e = v
	default:
		return nil, fmt.Errorf("unknown event type %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	return e, nil
}
