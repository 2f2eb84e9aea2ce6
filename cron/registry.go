package cron

import (
	"context"
	"sync"

	"inventory.GO/core/registry"
)

// Job is a named function run on a cron schedule.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

var mu sync.Mutex

// Register queues a job. Panics on a duplicate name or once StartCron/Jobs has frozen the list.
func Register(name, schedule string, run func(ctx context.Context) error) {
	mu.Lock()
	defer mu.Unlock()
	for _, j := range registered() {
		if j.Name == name {
			panic("cron/registry: duplicate job " + name)
		}
	}
	registry.Append(registry.GlobalRegistry, registry.KeyRegistryCron, Job{Name: name, Schedule: schedule, Run: run})
}

// Unregister removes a job and reopens the list (for tests).
func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	registry.GlobalRegistry.UnlockForTesting(registry.KeyRegistryCron)
	var keep []Job
	for _, j := range registered() {
		if j.Name != name {
			keep = append(keep, j)
		}
	}
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, keep)
}

func registered() []Job {
	return registry.Items[Job](registry.GlobalRegistry, registry.KeyRegistryCron)
}

// Jobs returns the registered jobs by name and freezes the list.
func Jobs() map[string]Job {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]Job)
	for _, j := range registered() {
		out[j.Name] = j
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryCron)
	return out
}
