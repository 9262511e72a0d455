// Package bus is a small in-process pub/sub broker with MQTT-style topics.
//
// Topics are token slices. A subscription topic may use "+" to match one
// level and a trailing "#" to match the remaining levels, including none.
// Retained messages are kept per concrete topic and replayed to matching
// subscribers when they subscribe. A retained publish with a nil payload
// clears the retained value.
package bus

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
)

// -----------------------------------------------------------------------------
// Tokens + Topics
// -----------------------------------------------------------------------------

// Token is a single element in a topic path. Any comparable value is
// accepted; strings and ints are the usual choices.
type Token any

const (
	WildOne  = "+"
	WildRest = "#"
)

// Topic is a sequence of tokens.
type Topic []Token

// T builds a topic. It panics on a token that cannot be used as a map key.
func T(tokens ...Token) Topic {
	for _, tok := range tokens {
		if tok == nil || !reflect.TypeOf(tok).Comparable() {
			panic(fmt.Sprintf("bus: token %#v is not comparable", tok))
		}
	}
	return Topic(tokens)
}

// Append returns a new topic with tokens added; t is not modified.
func (t Topic) Append(tokens ...Token) Topic {
	out := make(Topic, 0, len(t)+len(tokens))
	out = append(out, t...)
	return append(out, T(tokens...)...)
}

func (t Topic) String() string {
	s := ""
	for i, tok := range t {
		if i > 0 {
			s += "/"
		}
		s += fmt.Sprint(tok)
	}
	return s
}

// -----------------------------------------------------------------------------
// Message
// -----------------------------------------------------------------------------

type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
	ReplyTo  Topic
}

// CanReply reports whether the sender is waiting for a reply.
func (m *Message) CanReply() bool { return m != nil && len(m.ReplyTo) > 0 }

// -----------------------------------------------------------------------------
// Subscription
// -----------------------------------------------------------------------------

type Subscription struct {
	topic Topic
	ch    chan *Message
	bus   *Bus
	conn  *Connection // owning connection
}

func (s *Subscription) Topic() Topic             { return s.topic }
func (s *Subscription) Channel() <-chan *Message { return s.ch }
func (s *Subscription) Unsubscribe()             { s.conn.Unsubscribe(s) }

// deliver never blocks the publisher: a full queue drops its oldest entry.
func (s *Subscription) deliver(msg *Message) {
	select {
	case s.ch <- msg:
		return
	default:
	}
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- msg:
	default:
	}
}

// -----------------------------------------------------------------------------
// Trie nodes
// -----------------------------------------------------------------------------

// node is keyed by subscription patterns.
type node struct {
	children map[Token]*node
	subs     []*Subscription
}

// rnode is keyed by concrete topics and holds retained messages.
type rnode struct {
	children map[Token]*rnode
	msg      *Message
}

// -----------------------------------------------------------------------------
// Bus
// -----------------------------------------------------------------------------

type Bus struct {
	mu       sync.RWMutex
	root     *node
	retained *rnode
	qLen     int
	replySeq atomic.Uint64
}

// NewBus creates a new bus with the given subscription queue length.
func NewBus(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8 // safe default
	}
	return &Bus{
		root:     &node{},
		retained: &rnode{},
		qLen:     queueLen,
	}
}

// NewMessage builds a message without publishing it.
func (b *Bus) NewMessage(topic Topic, payload any, retained bool) *Message {
	return &Message{Topic: topic, Payload: payload, Retained: retained}
}

// addSubscription inserts a subscription into the trie and replays any
// retained messages it matches.
func (b *Bus) addSubscription(topic Topic, sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.root
	for _, tok := range topic {
		if n.children == nil {
			n.children = make(map[Token]*node)
		}
		child, ok := n.children[tok]
		if !ok {
			child = &node{}
			n.children[tok] = child
		}
		n = child
	}
	n.subs = append(n.subs, sub)

	b.retained.collect(topic, sub.deliver)
}

// collect walks retained messages matching pattern.
func (r *rnode) collect(pattern Topic, fn func(*Message)) {
	if len(pattern) == 0 {
		if r.msg != nil {
			fn(r.msg)
		}
		return
	}
	switch pattern[0] {
	case WildRest:
		r.each(fn)
	case WildOne:
		for _, c := range r.children {
			c.collect(pattern[1:], fn)
		}
	default:
		if c, ok := r.children[pattern[0]]; ok {
			c.collect(pattern[1:], fn)
		}
	}
}

func (r *rnode) each(fn func(*Message)) {
	if r.msg != nil {
		fn(r.msg)
	}
	for _, c := range r.children {
		c.each(fn)
	}
}

// retain stores or clears the retained message for msg.Topic.
func (b *Bus) retain(msg *Message) {
	r := b.retained
	var path []*rnode
	for _, tok := range msg.Topic {
		child, ok := r.children[tok]
		if !ok {
			if msg.Payload == nil {
				return
			}
			if r.children == nil {
				r.children = make(map[Token]*rnode)
			}
			child = &rnode{}
			r.children[tok] = child
		}
		path = append(path, r)
		r = child
	}
	if msg.Payload != nil {
		r.msg = msg
		return
	}
	r.msg = nil
	for i := len(path) - 1; i >= 0; i-- {
		child := path[i].children[msg.Topic[i]]
		if child.msg != nil || len(child.children) > 0 {
			break
		}
		delete(path[i].children, msg.Topic[i])
	}
}

// match calls fn for every subscription whose pattern matches topic.
func (n *node) match(topic Topic, fn func(*Subscription)) {
	if rest, ok := n.children[WildRest]; ok {
		for _, s := range rest.subs {
			fn(s)
		}
	}
	if len(topic) == 0 {
		for _, s := range n.subs {
			fn(s)
		}
		return
	}
	if c, ok := n.children[topic[0]]; ok {
		c.match(topic[1:], fn)
	}
	if topic[0] != WildOne {
		if c, ok := n.children[WildOne]; ok {
			c.match(topic[1:], fn)
		}
	}
}

// Publish delivers a message to all matching subscribers.
func (b *Bus) Publish(msg *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.root.match(msg.Topic, func(s *Subscription) { s.deliver(msg) })

	if msg.Retained {
		b.retain(msg)
	}
}

// unsubscribe removes a subscription from the trie.
func (b *Bus) unsubscribe(topic Topic, sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.root
	var stack []*node
	for _, t := range topic {
		if n.children == nil {
			return
		}
		child, ok := n.children[t]
		if !ok {
			return
		}
		stack = append(stack, n)
		n = child
	}

	for i, s := range n.subs {
		if s == sub {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			break
		}
	}

	// Prune empty nodes.
	for i := len(topic) - 1; i >= 0; i-- {
		parent := stack[i]
		key := topic[i]
		child := parent.children[key]
		if len(child.subs) == 0 && len(child.children) == 0 {
			delete(parent.children, key)
		} else {
			break
		}
	}
}

// -----------------------------------------------------------------------------
// Connection
// -----------------------------------------------------------------------------

type Connection struct {
	bus  *Bus
	subs []*Subscription
	mu   sync.Mutex
	id   string
}

// NewConnection creates a new connection bound to this bus.
func (b *Bus) NewConnection(id string) *Connection {
	return &Connection{
		bus: b,
		id:  id,
	}
}

func (c *Connection) ID() string { return c.id }

func (c *Connection) NewMessage(topic Topic, payload any, retained bool) *Message {
	return c.bus.NewMessage(topic, payload, retained)
}

// Publish sends a message via the bus.
func (c *Connection) Publish(msg *Message) {
	c.bus.Publish(msg)
}

// Subscribe registers a subscription owned by this connection.
func (c *Connection) Subscribe(topic Topic) *Subscription {
	sub := &Subscription{
		topic: topic,
		ch:    make(chan *Message, c.bus.qLen),
		bus:   c.bus,
		conn:  c,
	}
	c.bus.addSubscription(topic, sub)
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
	return sub
}

// Unsubscribe removes a subscription owned by this connection. It is safe
// to call more than once.
func (c *Connection) Unsubscribe(sub *Subscription) {
	c.mu.Lock()
	found := false
	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			found = true
			break
		}
	}
	c.mu.Unlock()
	if !found {
		return
	}
	c.bus.unsubscribe(sub.topic, sub)
	close(sub.ch)
}

// Disconnect closes all subscriptions and clears them.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	for _, sub := range subs {
		c.bus.unsubscribe(sub.topic, sub)
		close(sub.ch)
	}
}

// -----------------------------------------------------------------------------
// Request / Reply
// -----------------------------------------------------------------------------

// Request subscribes to a fresh reply topic, stamps it on msg.ReplyTo and
// publishes msg. The caller owns the returned subscription.
func (c *Connection) Request(msg *Message) *Subscription {
	msg.ReplyTo = T("_reply", c.id, c.bus.replySeq.Add(1))
	sub := c.Subscribe(msg.ReplyTo)
	c.Publish(msg)
	return sub
}

// RequestWait publishes msg and waits for the first reply or ctx.
func (c *Connection) RequestWait(ctx context.Context, msg *Message) (*Message, error) {
	sub := c.Request(msg)
	defer c.Unsubscribe(sub)

	select {
	case reply, ok := <-sub.Channel():
		if !ok {
			return nil, context.Canceled
		}
		return reply, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Reply answers req on its ReplyTo topic. It does nothing when the sender
// did not ask for a reply.
func (c *Connection) Reply(req *Message, payload any, retained bool) {
	if !req.CanReply() {
		return
	}
	c.Publish(c.NewMessage(req.ReplyTo, payload, retained))
}
