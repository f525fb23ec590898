package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"law_dashboard_go/services"

	"github.com/go-co-op/gocron"
	"gorm.io/gorm"
)

// Sweeper drops expired in-memory entries and reports how many
type Sweeper interface {
	Cleanup() int
}

// SessionCleanup removes expired login sessions, idle dashboard snapshots
// and any registered sweepers on a cron schedule.
type SessionCleanup struct {
	scheduler *gocron.Scheduler
	database  *gorm.DB
	snapshots *services.SnapshotStore
	schedule  string
	sweepers  map[string]Sweeper

	mu      sync.Mutex
	running bool
}

// NewSessionCleanup creates the job; snapshots may be nil
func NewSessionCleanup(database *gorm.DB, snapshots *services.SnapshotStore, schedule string) *SessionCleanup {
	return &SessionCleanup{
		scheduler: gocron.NewScheduler(time.Local),
		database:  database,
		snapshots: snapshots,
		schedule:  schedule,
		sweepers:  make(map[string]Sweeper),
	}
}

// AddSweeper registers an extra in-memory store to clean on every run
func (j *SessionCleanup) AddSweeper(name string, s Sweeper) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.sweepers[name] = s
}

// Start schedules the job and stops the scheduler when ctx is cancelled
func (j *SessionCleanup) Start(ctx context.Context) error {
	if _, err := j.scheduler.Cron(j.schedule).Do(j.Run); err != nil {
		return fmt.Errorf("failed to schedule session cleanup (%q): %w", j.schedule, err)
	}

	j.scheduler.StartAsync()
	log.Printf("[INFO] Session cleanup scheduled (%s)", j.schedule)

	go func() {
		<-ctx.Done()
		log.Println("[INFO] Stopping session cleanup scheduler")
		j.scheduler.Stop()
	}()

	return nil
}

// Run performs one cleanup pass. Overlapping runs are skipped.
func (j *SessionCleanup) Run() {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		log.Println("[WARNING] Session cleanup already running, skipping")
		return
	}
	j.running = true
	sweepers := make(map[string]Sweeper, len(j.sweepers))
	for name, s := range j.sweepers {
		sweepers[name] = s
	}
	j.mu.Unlock()

	defer func() {
		j.mu.Lock()
		j.running = false
		j.mu.Unlock()
	}()

	removed, err := services.CleanupExpiredSessions(j.database)
	if err != nil {
		log.Printf("Error cleaning up expired sessions: %v", err)
	} else if removed > 0 {
		log.Printf("[INFO] Removed %d expired sessions", removed)
	}

	if j.snapshots != nil {
		if pruned := j.snapshots.Prune(); pruned > 0 {
			log.Printf("[INFO] Pruned %d idle dashboard snapshots", pruned)
		}
	}

	for name, s := range sweepers {
		if removed := s.Cleanup(); removed > 0 {
			log.Printf("[INFO] Swept %d expired %s entries", removed, name)
		}
	}
}
