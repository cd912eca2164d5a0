package utils

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
)

// LoadConfig 分批并发执行配置
type LoadConfig struct {
	// BatchSize 每批并发数量
	BatchSize int
	// Interval 批次之间的静默间隔
	Interval time.Duration
	// MaxBatches 最大批次数，0 表示直到 ctx 结束
	MaxBatches int
	// OnBatch 每批完成后的回调（通常用于记录日志）
	OnBatch func(report BatchReport)
}

// DefaultLoadConfig 返回默认配置：每批 50 个，间隔 5 秒
func DefaultLoadConfig() *LoadConfig {
	return &LoadConfig{
		BatchSize: 50,
		Interval:  5 * time.Second,
	}
}

// BatchReport 单批执行结果
type BatchReport struct {
	// Batch 批次序号（从 0 开始）
	Batch int
	// Total 本批数量
	Total int
	// Success 成功数量
	Success int
	// Failed 失败数量
	Failed int
	// Duration 本批耗时
	Duration time.Duration
	// Err 本批失败的汇总错误，全部成功时为 nil
	Err error
}

// LoadSummary 全部批次的汇总
type LoadSummary struct {
	Batches int
	Success int
	Failed  int
}

// RunBatches 分批并发执行 fn
//
// 每批同时启动 BatchSize 个任务，等待整批完成后再休眠 Interval 开始下一批。
// 单个任务失败不会中断后续批次，失败通过 BatchReport.Err 汇总上报。
// ctx 结束时不再启动新批次，已启动的批次会等待完成。
//
// 示例：
//
//	summary, err := RunBatches(ctx, DefaultLoadConfig(), func(ctx context.Context, index int) error {
//	    _, err := sender.Send(ctx, build)
//	    return err
//	})
func RunBatches(
	ctx context.Context,
	config *LoadConfig,
	fn func(ctx context.Context, index int) error,
) (*LoadSummary, error) {
	if config == nil {
		config = DefaultLoadConfig()
	}
	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	summary := &LoadSummary{}
	for batch := 0; config.MaxBatches <= 0 || batch < config.MaxBatches; batch++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		report := runBatch(ctx, batch, batchSize, fn)
		summary.Batches++
		summary.Success += report.Success
		summary.Failed += report.Failed
		if config.OnBatch != nil {
			config.OnBatch(report)
		}

		// 最后一批后不再等待
		if config.MaxBatches > 0 && batch+1 >= config.MaxBatches {
			break
		}
		if config.Interval > 0 {
			timer := time.NewTimer(config.Interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return summary, ctx.Err()
			case <-timer.C:
			}
		}
	}
	return summary, nil
}

// runBatch 并发执行一批并等待全部完成
func runBatch(ctx context.Context, batch, size int, fn func(ctx context.Context, index int) error) BatchReport {
	start := time.Now()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result *multierror.Error
		failed int
	)

	for i := 0; i < size; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			if err := fn(ctx, index); err != nil {
				mu.Lock()
				result = multierror.Append(result, err)
				failed++
				mu.Unlock()
			}
		}(batch*size + i)
	}
	wg.Wait()

	return BatchReport{
		Batch:    batch,
		Total:    size,
		Success:  size - failed,
		Failed:   failed,
		Duration: time.Since(start),
		Err:      result.ErrorOrNil(),
	}
}

// ParallelExecute 并行执行多个操作
//
// 对一组输入并发执行操作函数，限制并发数量。结果按输入顺序返回；
// 任一操作失败时返回所有失败的汇总错误，成功项的结果仍然保留。
//
// 示例：
//
//	digests := []string{d1, d2, d3}
//	results, err := ParallelExecute(ctx, digests, func(ctx context.Context, d string) (*ParsedTx, error) {
//	    return txService.GetTransaction(ctx, d)
//	}, 5)
func ParallelExecute[T any, R any](
	ctx context.Context,
	items []T,
	executeFn func(ctx context.Context, item T) (R, error),
	concurrency int,
) ([]R, error) {
	if concurrency <= 0 {
		concurrency = 5
	}

	results := make([]R, len(items))
	errs := make([]error, len(items))
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	for i, item := range items {
		wg.Add(1)
		go func(index int, it T) {
			defer wg.Done()

			// 获取信号量
			sem <- struct{}{}
			defer func() { <-sem }()

			results[index], errs[index] = executeFn(ctx, it)
		}(i, item)
	}

	wg.Wait()

	var merr *multierror.Error
	for _, err := range errs {
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return results, merr.ErrorOrNil()
}

// BatchArray 将数组按 batchSize 分批
func BatchArray[T any](array []T, batchSize int) [][]T {
	if batchSize <= 0 {
		return [][]T{array}
	}
	batches := make([][]T, 0, (len(array)+batchSize-1)/batchSize)
	for i := 0; i < len(array); i += batchSize {
		end := i + batchSize
		if end > len(array) {
			end = len(array)
		}
		batches = append(batches, array[i:end])
	}
	return batches
}
