// Package host models the browser capabilities the tracker queries: the
// open tab count, the mail inbox size and the icon badge.
package host

import (
	"ecotrack/internal/models"
	"ecotrack/internal/structures"
	"ecotrack/internal/tips"

	"go.uber.org/atomic"
)

type TabCounter interface {
	// OpenTabs returns false when the host cannot report a count.
	OpenTabs() (int, bool)
}

type InboxCounter interface {
	EmailsInInbox() int
}

type BadgeSink interface {
	SetBadge(count int)
	Current() models.Badge
}

type Host struct {
	Tabs  TabCounter
	Inbox InboxCounter
	Badge BadgeSink
}

// NewHost wires the simulator when simulation is enabled. Otherwise tab
// counts only arrive as pushed snapshots and the inbox size is the
// configured constant.
func NewHost(conf *structures.Config) *Host {
	h := &Host{Badge: NewBadgeState()}
	if conf.Simulation.Enabled {
		sim := NewSimulator(conf.Simulation.Seed)
		h.Tabs = sim
		h.Inbox = sim
		return h
	}
	h.Tabs = noTabs{}
	h.Inbox = StaticInbox(conf.Tracker.EmailsInInbox)
	return h
}

type noTabs struct{}

func (noTabs) OpenTabs() (int, bool) { return 0, false }

type StaticInbox int

func (s StaticInbox) EmailsInInbox() int { return max(int(s), 0) }

// BadgeState keeps the last badge count for the UI to poll.
type BadgeState struct {
	count *atomic.Int64
}

func NewBadgeState() *BadgeState {
	return &BadgeState{count: atomic.NewInt64(0)}
}

func (b *BadgeState) SetBadge(count int) {
	b.count.Store(int64(count))
}

func (b *BadgeState) Current() models.Badge {
	return tips.Badge(int(b.count.Load()))
}
