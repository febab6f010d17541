// Package websocket
package websocket

import (
	"context"
	"encoding/json"

	"horizonx-gauge/internal/domain"
	"horizonx-gauge/internal/logger"
)

type Hub struct {
	ctx    context.Context
	cancel context.CancelFunc

	clients  map[*Client]bool
	channels map[string]map[*Client]bool

	register    chan *Client
	unregister  chan *Client
	subscribe   chan *Subscription
	unsubscribe chan *Subscription
	events      chan *domain.WsServerEvent

	log logger.Logger
}

type Subscription struct {
	client  *Client
	channel string
}

func NewHub(parent context.Context, log logger.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)

	return &Hub{
		ctx:    ctx,
		cancel: cancel,

		clients:  make(map[*Client]bool),
		channels: make(map[string]map[*Client]bool),

		register:    make(chan *Client, 64),
		unregister:  make(chan *Client, 64),
		subscribe:   make(chan *Subscription, 64),
		unsubscribe: make(chan *Subscription, 64),
		events:      make(chan *domain.WsServerEvent, 256),

		log: log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			h.log.Info("ws: hub shutting down...")
			for client := range h.clients {
				close(client.send)
			}
			return

		case c := <-h.register:
			h.add(c)

		case c := <-h.unregister:
			h.remove(c)

		case sub := <-h.subscribe:
			h.addSubscription(sub)

		case sub := <-h.unsubscribe:
			h.removeSubscription(sub)

		case ev := <-h.events:
			h.handleEvent(ev)
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
}

// join and leave hand a client to Run. Once the hub has stopped nothing
// reads those channels, so they give up instead of blocking.
func (h *Hub) join(c *Client) bool {
	if h.ctx.Err() != nil {
		return false
	}

	select {
	case h.register <- c:
		return true
	case <-h.ctx.Done():
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.ctx.Done():
	}
}

func (h *Hub) enqueue(ch chan *Subscription, sub *Subscription) {
	select {
	case ch <- sub:
	case <-h.ctx.Done():
	}
}

func (h *Hub) Broadcast(ev *domain.WsServerEvent) {
	select {
	case h.events <- ev:
	case <-h.ctx.Done():
	default:
		h.log.Warn("ws: broadcast buffer full, dropping event", "event", ev.Event)
	}
}

// PublishReadings sends every reading to its instance channel and the
// whole set to the dashboard channel.
func (h *Hub) PublishReadings(readings []domain.GaugeReading) {
	for _, r := range readings {
		h.Broadcast(&domain.WsServerEvent{
			Channel: domain.GetInstanceCPUChannel(r.InstanceID),
			Event:   domain.WsEventGaugeUpdated,
			Payload: r,
		})
	}

	h.Broadcast(&domain.WsServerEvent{
		Channel: domain.WsChannelGauges,
		Event:   domain.WsEventGaugeUpdated,
		Payload: readings,
	})
}

func (h *Hub) add(c *Client) {
	h.clients[c] = true
	h.log.Info("ws: client registered", "id", c.ID, "total_clients", len(h.clients))
}

func (h *Hub) addSubscription(sub *Subscription) {
	if !h.clients[sub.client] {
		return
	}
	if h.channels[sub.channel] == nil {
		h.channels[sub.channel] = make(map[*Client]bool)
	}
	h.channels[sub.channel][sub.client] = true
	h.log.Debug("ws: client subscribed", "client_id", sub.client.ID, "channel", sub.channel)
}

func (h *Hub) removeSubscription(sub *Subscription) {
	subs, ok := h.channels[sub.channel]
	if !ok {
		return
	}
	if _, subscribed := subs[sub.client]; subscribed {
		delete(subs, sub.client)
		if len(subs) == 0 {
			delete(h.channels, sub.channel)
		}
		h.log.Debug("ws: client unsubscribed", "client_id", sub.client.ID, "channel", sub.channel)
	}
}

func (h *Hub) remove(c *Client) {
	if !h.clients[c] {
		return
	}

	delete(h.clients, c)
	close(c.send)
	h.log.Info("ws: client unregistered", "id", c.ID, "total_clients", len(h.clients))

	for chID, subs := range h.channels {
		if _, subscribed := subs[c]; subscribed {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.channels, chID)
			}
		}
	}
}

func (h *Hub) handleEvent(ev *domain.WsServerEvent) {
	message, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("ws: failed to marshal server event", "error", err)
		return
	}

	targetClients := h.clients

	if ev.Channel != "" {
		subs, ok := h.channels[ev.Channel]
		if !ok {
			h.log.Debug("ws: event channel has no subscribers", "channel", ev.Channel)
			return
		}
		targetClients = subs
	}

	for client := range targetClients {
		select {
		case client.send <- message:
		default:
			h.log.Warn("ws: client channel full, force unregister", "id", client.ID)
			h.remove(client)
		}
	}
}
