package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

// queueDSNParams keeps queue writes from blocking the watchlist database:
// WAL lets workers read while the API enqueues.
const queueDSNParams = "?_journal=WAL&_timeout=5000&_busy_timeout=5000"

// Client owns the queue database that snapshot backups and audit cleanup run
// from. Tasks survive restarts because they live in SQLite, not in memory.
type Client struct {
	queue   *backlite.Client
	db      *sql.DB
	workers int
	running atomic.Bool
}

// TasksDBPath places the queue next to the watchlist database:
// "data/watchlist.db" becomes "data/watchlist-tasks.db".
func TasksDBPath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	return strings.TrimSuffix(mainDBPath, ext) + "-tasks" + ext
}

// NewClient opens (or creates) the queue database for mainDBPath and installs
// the backlite schema. Queues are added afterwards with Register.
func NewClient(mainDBPath string, cfg Config) (*Client, error) {
	workers := max(cfg.Workers, 1)

	db, err := sql.Open("sqlite3", TasksDBPath(mainDBPath)+queueDSNParams)
	if err != nil {
		return nil, fmt.Errorf("open queue database: %w", err)
	}
	db.SetMaxOpenConns(workers + 5)
	db.SetMaxIdleConns(workers + 2)
	db.SetConnMaxLifetime(time.Hour)

	queue, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          queueLogger{},
	})
	if err == nil {
		err = queue.Install()
	}
	if err != nil {
		return nil, errors.Join(fmt.Errorf("set up task queue: %w", err), db.Close())
	}

	return &Client{queue: queue, db: db, workers: workers}, nil
}

// Register adds the backup and cleanup queues. Call it before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.queue.Register(q)
	}
}

// Start runs the workers until ctx is cancelled. Repeated calls are ignored.
func (c *Client) Start(ctx context.Context) {
	if !c.running.CompareAndSwap(false, true) {
		return
	}
	log.Printf("Task queue: %d worker(s) processing backups and audit cleanup", c.workers)
	c.queue.Start(ctx)
}

// Stop waits for in-flight tasks until ctx expires and reports whether they
// all finished. A queue that never started stops trivially.
func (c *Client) Stop(ctx context.Context) bool {
	if !c.running.Load() {
		return true
	}

	drained := c.queue.Stop(ctx)
	if !drained {
		log.Printf("Task queue: stopped before in-flight tasks finished")
		return false
	}
	log.Printf("Task queue: stopped")
	return true
}

// Close releases the queue database. Call it after Stop.
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Enqueue persists task and returns its id.
func (c *Client) Enqueue(ctx context.Context, task backlite.Task) (string, error) {
	queue := task.Config().Name

	ids, err := c.queue.Add(task).Ctx(ctx).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", queue, err)
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("enqueue %s: no task id returned", queue)
	}
	return ids[0], nil
}

// Status reports where a task is in its lifecycle.
func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.queue.Status(ctx, taskID)
}

// queueLogger routes backlite's messages through the standard logger.
// backlite passes key/value pairs after the message, not format arguments.
type queueLogger struct{}

func (queueLogger) Info(message string, params ...any) {
	log.Print("Task queue: " + withFields(message, params))
}

func (queueLogger) Error(message string, params ...any) {
	log.Print("Task queue error: " + withFields(message, params))
}

func withFields(message string, params []any) string {
	var b strings.Builder
	b.WriteString(message)
	for i := 0; i < len(params); i += 2 {
		if i+1 < len(params) {
			fmt.Fprintf(&b, " %v=%v", params[i], params[i+1])
		} else {
			fmt.Fprintf(&b, " %v", params[i])
		}
	}
	return b.String()
}
