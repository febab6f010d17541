package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

const (
	WsChannelGauges              = "gauges"
	WsChannelInstanceCPUTemplate = "instance:%s:cpu"
)

const (
	WsEventGaugeUpdated = "cpu_gauge_updated"
)

const (
	WsSubscribe   = "subscribe"
	WsUnsubscribe = "unsubscribe"
)

type WsClientMessage struct {
	Type    string          `json:"type"`
	Channel string          `json:"channel,omitempty"`
	Event   string          `json:"event,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type WsServerEvent struct {
	Channel string `json:"channel"`
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

func GetInstanceCPUChannel(instanceID uuid.UUID) string {
	return fmt.Sprintf(WsChannelInstanceCPUTemplate, instanceID)
}
