package process

import (
	"errors"
	"testing"
	"time"

	gopsutil "github.com/shirou/gopsutil/v4/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver map[string]string

func (s stubResolver) ResolveCommand(name string) (string, bool) {
	cmd, ok := s[name]
	return cmd, ok
}

type stubLister []Handle

func (s stubLister) Snapshot() []Handle { return append([]Handle(nil), s...) }

func proc(pid int32, name string, age time.Duration, kill func() error) Handle {
	return Handle{
		PID:     pid,
		Name:    name,
		Created: time.Now().Add(-age),
		kill:    kill,
	}
}

func TestFindMatchesByBasename(t *testing.T) {
	c := New(
		stubResolver{"firefox": "/usr/lib/firefox/firefox %u"},
		stubLister{
			proc(10, "firefox", time.Minute, nil),
			proc(11, "systemd", time.Hour, nil),
		},
		nil,
	)

	var names []string
	for h := range c.Find("firefox") {
		names = append(names, h.Name)
	}
	assert.Equal(t, []string{"firefox"}, names)
}

func TestFindOrdersMostRecentFirst(t *testing.T) {
	c := New(
		stubResolver{"firefox": "firefox"},
		stubLister{
			proc(10, "firefox", time.Hour, nil),
			proc(20, "firefox", time.Minute, nil),
			proc(30, "firefox", 30*time.Minute, nil),
		},
		nil,
	)

	var pids []int32
	for h := range c.Find("firefox") {
		pids = append(pids, h.PID)
	}
	assert.Equal(t, []int32{20, 30, 10}, pids)
}

func TestFindExcludesZombies(t *testing.T) {
	zombie := proc(10, "firefox", time.Minute, nil)
	zombie.Statuses = []string{gopsutil.Zombie}

	c := New(
		stubResolver{"firefox": "firefox"},
		stubLister{zombie, proc(11, "firefox", time.Hour, nil)},
		nil,
	)

	var pids []int32
	for h := range c.Find("firefox") {
		pids = append(pids, h.PID)
	}
	// the zombie is skipped even though its name matches perfectly
	assert.Equal(t, []int32{11}, pids)
}

func TestFindUnresolvable(t *testing.T) {
	c := New(stubResolver{}, stubLister{proc(10, "firefox", time.Minute, nil)}, nil)

	assert.False(t, c.IsRunning("spreadsheet"))
}

func TestTerminateMostRecentOnly(t *testing.T) {
	var killed []int32
	killer := func(pid int32) func() error {
		return func() error {
			killed = append(killed, pid)
			return nil
		}
	}

	c := New(
		stubResolver{"firefox": "firefox"},
		stubLister{
			proc(10, "firefox", time.Hour, killer(10)),
			proc(20, "firefox", time.Minute, killer(20)),
		},
		nil,
	)

	require.True(t, c.Terminate("firefox", false))
	assert.Equal(t, []int32{20}, killed)
}

func TestTerminateAll(t *testing.T) {
	var killed []int32
	killer := func(pid int32) func() error {
		return func() error {
			killed = append(killed, pid)
			return nil
		}
	}

	c := New(
		stubResolver{"firefox": "firefox"},
		stubLister{
			proc(10, "firefox", time.Hour, killer(10)),
			proc(20, "firefox", time.Minute, killer(20)),
		},
		nil,
	)

	require.True(t, c.Terminate("firefox", true))
	assert.ElementsMatch(t, []int32{10, 20}, killed)
}

func TestTerminateCollectsFailures(t *testing.T) {
	var killed []int32
	c := New(
		stubResolver{"firefox": "firefox"},
		stubLister{
			proc(10, "firefox", time.Minute, func() error { return errors.New("access denied") }),
			proc(20, "firefox", time.Hour, func() error {
				killed = append(killed, 20)
				return nil
			}),
		},
		nil,
	)

	// the failure is non-fatal: the batch continues and still succeeds
	assert.True(t, c.Terminate("firefox", true))
	assert.Equal(t, []int32{20}, killed)
}

func TestTerminateNothingRunning(t *testing.T) {
	c := New(stubResolver{"firefox": "firefox"}, stubLister{}, nil)
	assert.False(t, c.Terminate("firefox", true))
}
