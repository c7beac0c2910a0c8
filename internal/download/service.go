package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meshvault/mesh-gallery/internal/model"
)

// Retry policy
const (
	MaxRetries   = 1
	RetryBackoff = 2 * time.Second
)

// Progress reporting intervals
const (
	ProgressInterval = 500 * time.Millisecond
	StopPollInterval = 100 * time.Millisecond
)

// IO constants
const (
	CopyBufferSize = 128 << 10
	PartSuffix     = ".part"
)

// ErrTaskExists is returned by AddTask when a non-finished task already
// covers the URL.
var ErrTaskExists = errors.New("task already exists")

// Service handles download operations
type Service struct {
	tasks       map[string]*model.DownloadTask
	order       []string
	tasksMutex  sync.RWMutex
	maxParallel int
	activeCount int
	downloadDir string
	httpClient  *http.Client
	onUpdate    func(*model.DownloadTask) // callback for UI updates
}

// NewService creates a new download service
func NewService(downloadDir string, maxParallel int) *Service {
	return &Service{
		tasks:       make(map[string]*model.DownloadTask),
		maxParallel: maxParallel,
		downloadDir: downloadDir,
		httpClient:  &http.Client{},
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.onUpdate = callback
}

// SetMaxParallelDownloads sets the parallelism bound and starts pending
// tasks if the bound grew
func (s *Service) SetMaxParallelDownloads(max int) {
	s.tasksMutex.Lock()
	s.maxParallel = max
	s.tasksMutex.Unlock()

	s.startPendingTasks()
}

// SetDownloadDirectory sets the directory new downloads are written to
func (s *Service) SetDownloadDirectory(dir string) {
	s.tasksMutex.Lock()
	s.downloadDir = dir
	s.tasksMutex.Unlock()
}

// ActiveCount returns the number of currently running downloads
func (s *Service) ActiveCount() int {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	return s.activeCount
}

// AddTask adds a new download task
func (s *Service) AddTask(url, name string) (*model.DownloadTask, error) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	// Check for duplicate URLs
	for _, task := range s.tasks {
		if task.URL == url && !task.Status.IsFinished() {
			return nil, fmt.Errorf("%w for URL: %s", ErrTaskExists, url)
		}
	}

	task := &model.DownloadTask{
		ID:        generateTaskID(),
		URL:       url,
		AssetName: name,
		Status:    model.TaskStatusPending,
		Progress:  0.0,
		Percent:   0,
		ETASec:    -1,
		StartedAt: time.Now(),
	}

	s.tasks[task.ID] = task
	s.order = append(s.order, task.ID)

	// Start right away when a slot is free
	if s.claimTaskLocked(task) {
		go s.startTask(task)
	}

	return task, nil
}

// GetTask returns a task by ID
func (s *Service) GetTask(id string) (*model.DownloadTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	return task, exists
}

// GetAllTasks returns all tasks in creation order
func (s *Service) GetAllTasks() []*model.DownloadTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]*model.DownloadTask, 0, len(s.order))
	for _, id := range s.order {
		tasks = append(tasks, s.tasks[id])
	}
	return tasks
}

// StopTask stops a running task
func (s *Service) StopTask(id string) error {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	task, exists := s.tasks[id]
	if !exists {
		return fmt.Errorf("task not found: %s", id)
	}

	if !task.Status.IsActive() {
		return fmt.Errorf("task is not active: %s", task.Status)
	}

	// Set stopping status
	task.Status = model.TaskStatusStopping
	s.notifyUpdate(task)

	// The actual stopping is handled in the task goroutine
	return nil
}

// RestartTask resets a stopped or failed task and queues it again
func (s *Service) RestartTask(id string) error {
	s.tasksMutex.Lock()

	task, exists := s.tasks[id]
	if !exists {
		s.tasksMutex.Unlock()
		return fmt.Errorf("task not found: %s", id)
	}
	if task.Status.IsActive() {
		s.tasksMutex.Unlock()
		return fmt.Errorf("task is still active: %s", id)
	}

	task.Status = model.TaskStatusPending
	task.Progress = 0.0
	task.Percent = 0
	task.Speed = ""
	task.ETASec = -1
	task.LastError = ""
	task.OutputPath = ""
	task.FileSize = 0
	task.StartedAt = time.Now()
	task.FinishedAt = time.Time{}

	claimed := s.claimTaskLocked(task)
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
	if claimed {
		go s.startTask(task)
	}
	return nil
}

// RemoveTask removes a finished task from the list
func (s *Service) RemoveTask(id string) error {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	task, exists := s.tasks[id]
	if !exists {
		return fmt.Errorf("task not found: %s", id)
	}
	if task.Status.IsActive() {
		return fmt.Errorf("cannot remove active task: %s", id)
	}

	delete(s.tasks, id)
	s.order = removeID(s.order, id)
	return nil
}

// ClearFinished removes every finished task and returns how many were
// removed
func (s *Service) ClearFinished() int {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	removed := 0
	kept := s.order[:0]
	for _, id := range s.order {
		if s.tasks[id].Status.IsFinished() {
			delete(s.tasks, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return removed
}

// removeID filters one ID out of an order slice, keeping creation order
func removeID(order []string, id string) []string {
	kept := order[:0]
	for _, v := range order {
		if v != id {
			kept = append(kept, v)
		}
	}
	return kept
}

// claimTaskLocked reserves a capacity slot for a pending task and marks
// it starting. The caller must hold tasksMutex.
func (s *Service) claimTaskLocked(task *model.DownloadTask) bool {
	if s.activeCount >= s.maxParallel {
		return false
	}
	if s.tasks[task.ID] != task || task.Status != model.TaskStatusPending {
		return false
	}
	s.activeCount++
	task.Status = model.TaskStatusStarting
	return true
}

// startTask runs a claimed task to completion
func (s *Service) startTask(task *model.DownloadTask) {
	s.notifyUpdate(task)

	// A stop can arrive between the claim and this goroutine running
	s.tasksMutex.Lock()
	if task.Status != model.TaskStatusStarting {
		task.Status = model.TaskStatusStopped
		task.FinishedAt = time.Now()
		s.activeCount--
		s.tasksMutex.Unlock()
		s.notifyUpdate(task)
		s.startPendingTasks()
		return
	}
	task.Status = model.TaskStatusDownloading
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	defer func() {
		s.tasksMutex.Lock()
		s.activeCount--
		s.tasksMutex.Unlock()

		// Hand the freed slot to the queue
		s.startPendingTasks()
	}()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Monitor for stop requests
	go func() {
		for {
			s.tasksMutex.RLock()
			status := task.Status
			s.tasksMutex.RUnlock()

			if status == model.TaskStatusStopping {
				cancel()
				return
			}
			if status.IsFinished() {
				return
			}
			time.Sleep(StopPollInterval)
		}
	}()

	// Start download with retry logic
	outputPath, err := s.downloadWithRetry(ctx, task)

	// Update final status
	s.tasksMutex.Lock()
	if err != nil {
		if ctx.Err() == context.Canceled {
			task.Status = model.TaskStatusStopped
		} else {
			task.Status = model.TaskStatusError
			task.LastError = err.Error()
		}
	} else {
		task.Status = model.TaskStatusCompleted
		task.Progress = 1.0
		task.Percent = 100
		task.OutputPath = outputPath
	}
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
}

// downloadWithRetry attempts download with retry logic
func (s *Service) downloadWithRetry(ctx context.Context, task *model.DownloadTask) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			// Backoff delay
			select {
			case <-time.After(RetryBackoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}

			log.Printf("Retrying download for task %s, attempt %d", task.ID, attempt+1)
		}

		// Attempt download
		outputPath, err := s.downloadFile(ctx, task)
		if err == nil {
			return outputPath, nil
		}

		lastErr = err
		log.Printf("Download attempt %d failed for task %s: %v", attempt+1, task.ID, err)

		// Check if we should retry
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	return "", lastErr
}

// downloadFile streams the resource into a part file and renames it into
// place when the transfer completes
func (s *Service) downloadFile(ctx context.Context, task *model.DownloadTask) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %v", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to start download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download request returned %s", resp.Status)
	}

	s.tasksMutex.Lock()
	task.FileSize = resp.ContentLength
	downloadDir := s.downloadDir
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %v", err)
	}

	outputPath := uniqueOutputPath(downloadDir, suggestedFilename(task))
	partPath := outputPath + PartSuffix

	out, err := os.Create(partPath)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %v", err)
	}

	_, copyErr := s.copyWithProgress(task, out, resp.Body, resp.ContentLength)
	if closeErr := out.Close(); copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		os.Remove(partPath)
		return "", fmt.Errorf("transfer failed: %w", copyErr)
	}

	if err := os.Rename(partPath, outputPath); err != nil {
		os.Remove(partPath)
		return "", fmt.Errorf("failed to finalize download: %v", err)
	}

	return outputPath, nil
}

// copyWithProgress copies the stream, sampling progress at a fixed interval
func (s *Service) copyWithProgress(task *model.DownloadTask, dst io.Writer, src io.Reader, total int64) (int64, error) {
	buf := make([]byte, CopyBufferSize)
	start := time.Now()
	lastSample := start
	var written int64

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return written, writeErr
			}
			written += int64(n)
			if time.Since(lastSample) >= ProgressInterval {
				lastSample = time.Now()
				s.updateTaskProgress(task, written, total, start)
			}
		}
		if readErr == io.EOF {
			s.updateTaskProgress(task, written, total, start)
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}

// updateTaskProgress updates task progress from transfer counters
func (s *Service) updateTaskProgress(task *model.DownloadTask, written, total int64, start time.Time) {
	s.tasksMutex.Lock()

	// Update percentage
	if total > 0 {
		percent := float64(written) / float64(total) * 100
		task.Percent = int(percent)
		task.Progress = percent / 100.0
	}

	// Calculate speed
	elapsed := time.Since(start)
	if elapsed.Seconds() > 0 {
		bytesPerSecond := float64(written) / elapsed.Seconds()
		task.Speed = model.FormatBytes(int64(bytesPerSecond)) + "/s"

		// Calculate ETA
		if total > 0 && bytesPerSecond > 0 {
			task.ETASec = int(float64(total-written) / bytesPerSecond)
		}
	}

	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
}

// startPendingTasks claims queued tasks in creation order until the
// capacity is used up
func (s *Service) startPendingTasks() {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	for _, id := range s.order {
		task := s.tasks[id]
		if task.Status != model.TaskStatusPending {
			continue
		}
		// A failed claim means every slot is taken
		if !s.claimTaskLocked(task) {
			return
		}
		go s.startTask(task)
	}
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.DownloadTask) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
}

// suggestedFilename derives the output filename from the locator's name
// parameter, falling back to the URL path and then the task ID
func suggestedFilename(task *model.DownloadTask) string {
	if u, err := url.Parse(task.URL); err == nil {
		if name := u.Query().Get("name"); name != "" {
			return sanitizeFilename(name)
		}
		if base := path.Base(u.Path); base != "" && base != "/" && base != "." {
			return sanitizeFilename(base)
		}
	}
	return task.ID
}

// sanitizeFilename replaces characters that are not portable across
// filesystems
func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}

// uniqueOutputPath appends a counter to the filename until it does not
// collide with an existing file
func uniqueOutputPath(dir, filename string) string {
	candidate := filepath.Join(dir, filename)
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return candidate
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	for i := 1; ; i++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("task-%d", time.Now().UnixNano())
	}
	return id.String()
}
