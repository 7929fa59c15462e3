package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

func (s *server) startWorkers(ctx context.Context) {
	for i := 0; i < s.cfg.Workers; i++ {
		go s.worker(ctx, i)
	}
}

func (s *server) worker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-s.jobQueue:
			if !ok {
				return
			}
			s.processJob(ctx, job, id)
		}
	}
}

func (s *server) processJob(ctx context.Context, job *ConversionJob, workerID int) {
	atomic.AddInt64(&s.stats.active, 1)
	atomic.AddInt64(&s.stats.queued, -1)

	job.Status = StatusProcessing
	job.StartedAt = time.Now()

	s.log.Info("converting",
		zap.Int("worker", workerID),
		zap.String("job_id", job.ID),
		zap.String("file", job.Filename),
		zap.String("strategy", job.Route.Strategy.String()),
		zap.String("target", job.Route.Target))

	result, err := s.convert(ctx, job)
	job.CompletedAt = time.Now()

	if err != nil {
		job.Status = StatusFailed
		job.Err = err
		atomic.AddInt64(&s.stats.failed, 1)
		s.log.Error("conversion failed",
			zap.String("job_id", job.ID),
			zap.String("file", job.Filename),
			zap.Error(err))
	} else {
		job.Status = StatusCompleted
		job.Result = result
		job.OutputName = job.BaseName + "." + job.Route.Target
		atomic.AddInt64(&s.stats.completed, 1)
		s.log.Info("conversion completed",
			zap.String("job_id", job.ID),
			zap.String("output", job.OutputName),
			zap.Int("bytes", len(result)),
			zap.Duration("took", job.CompletedAt.Sub(job.StartedAt)))
	}

	atomic.AddInt64(&s.stats.active, -1)
	close(job.done)
}

// convert runs the routed strategy. Subprocess conversions get a scratch
// workspace which is removed before returning, whichever way the conversion
// ends.
func (s *server) convert(ctx context.Context, job *ConversionJob) ([]byte, error) {
	switch job.Route.Strategy {
	case StrategyNative:
		return convertNative(job.Payload, job.Route)
	case StrategyLibreOffice:
		ws, err := NewWorkspace(s.cfg.TempDir, job.ID, job.Ext, job.Payload, s.log)
		if err != nil {
			return nil, err
		}
		defer ws.Cleanup()
		return convertWithLibreOffice(ctx, s.cfg.SofficeBin, s.cfg.ConvertTimeout, ws, job.Route.Target)
	default:
		return nil, fmt.Errorf("unknown strategy %d", job.Route.Strategy)
	}
}
