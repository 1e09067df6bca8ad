package renderer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/cpu"
)

// TileTask is one unit of work for the pool
type TileTask struct {
	Tile       *Tile
	PassNumber int
	TaskID     int
}

// TileResult reports a finished task
type TileResult struct {
	TaskID int
	Stats  RenderStats
	Error  error
}

// WorkerPool renders tiles in parallel
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker pulls tasks from the pool's queue until it is closed
type Worker struct {
	ID          int
	renderer    *tileRenderer
	taskQueue   chan TileTask
	resultQueue chan TileResult
}

// DefaultWorkers returns the number of logical CPUs
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		logger.Debugf("cpu count unavailable (%v), using runtime.NumCPU", err)
		return runtime.NumCPU()
	}
	return n
}

// NewWorkerPool creates numWorkers workers sharing one tile renderer.
// queueSize bounds the number of tasks in flight.
func NewWorkerPool(tr *tileRenderer, numWorkers, queueSize int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers()
	}
	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, queueSize),
		resultQueue: make(chan TileResult, queueSize),
		numWorkers:  numWorkers,
	}
	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			renderer:    tr,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}
	return wp
}

// Start launches all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop waits for queued tasks to drain and closes the result queue
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask queues a task, blocking while the queue is full
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult returns the next finished task, false once the pool is stopped
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()
	for task := range w.taskQueue {
		w.resultQueue <- w.render(task)
	}
}

// render runs one task. Samples recover their own panics; anything else that
// panics fails the task instead of the process.
func (w *Worker) render(task TileTask) (result TileResult) {
	result.TaskID = task.TaskID
	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Errorf("tile %d pass %d: %v", task.Tile.ID, task.PassNumber, r)
		}
	}()
	result.Stats = w.renderer.renderTile(task.Tile)
	task.Tile.PassesCompleted++
	return result
}
