// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

// Package fetch downloads the published Speisenplan PDF, archives it,
// parses it and stores the resulting week plan. The Scheduler repeats that
// on an interval; a manual run goes through Fetcher.Fetch directly.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	"github.com/mensahub/mensad/internal/archive"
	"github.com/mensahub/mensad/internal/logging"
	"github.com/mensahub/mensad/internal/model"
	"github.com/mensahub/mensad/internal/parser"
	"github.com/mensahub/mensad/internal/pdfext"
	"github.com/mensahub/mensad/internal/state"
)

// ErrUnchanged reports that the downloaded PDF matches the archived copy
// and its plan is already stored.
var ErrUnchanged = errors.New("meal plan unchanged")

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxAttempts = 3
	retryBaseDelay     = 2 * time.Second
	maxRetryDelay      = 30 * time.Second
)

// Extractor turns a stored PDF into positioned text rows per page.
type Extractor interface {
	ExtractRows(path string) ([][]pdfext.Row, error)
}

// PDFExtractor is the production Extractor.
type PDFExtractor struct{}

func (PDFExtractor) ExtractRows(path string) ([][]pdfext.Row, error) {
	return pdfext.ExtractRows(path)
}

// PlanStore is the slice of the database layer the fetcher writes to.
type PlanStore interface {
	UpsertMealPlan(plan *model.MealPlan) (created bool, err error)
	GetMealPlan(year, week int) (*model.MealPlan, error)
	LogAction(action string, details string) error
}

// Options configures a Fetcher.
type Options struct {
	// URL of the published plan PDF.
	URL string
	// Timeout for one download attempt. Zero selects 10s.
	Timeout time.Duration
	// ArchiveKeep prunes the archive down to this many PDFs after a
	// successful fetch. Zero keeps everything.
	ArchiveKeep int
	// MaxAttempts bounds download retries. Zero selects 3.
	MaxAttempts int
	// Extractor overrides PDF text extraction. Nil selects PDFExtractor.
	Extractor Extractor
}

// Fetcher downloads, archives, parses and stores the weekly plan.
type Fetcher struct {
	opts    Options
	client  *http.Client
	store   PlanStore
	archive *archive.Archive
	cache   *state.PlanCache

	retryBase time.Duration
	retryMax  time.Duration
}

// New returns a Fetcher. cache may be nil when no process-local plan cache
// is kept, as in one-shot CLI runs.
func New(opts Options, store PlanStore, arc *archive.Archive, cache *state.PlanCache) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.Extractor == nil {
		opts.Extractor = PDFExtractor{}
	}
	return &Fetcher{
		opts:      opts,
		client:    &http.Client{Timeout: opts.Timeout},
		store:     store,
		archive:   arc,
		cache:     cache,
		retryBase: retryBaseDelay,
		retryMax:  maxRetryDelay,
	}
}

// Fetch runs one full download/parse/store cycle and returns the stored
// plan. It returns ErrUnchanged when the published PDF has not changed
// since the last stored fetch.
func (f *Fetcher) Fetch(ctx context.Context) (*model.MealPlan, error) {
	start := time.Now()
	plan, err := f.fetch(ctx)
	fetchDuration.Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, ErrUnchanged):
		fetchTotal.WithLabelValues("unchanged").Inc()
	case err != nil:
		fetchTotal.WithLabelValues("error").Inc()
	default:
		fetchTotal.WithLabelValues("success").Inc()
		lastSuccess.SetToCurrentTime()
	}
	return plan, err
}

func (f *Fetcher) fetch(ctx context.Context) (*model.MealPlan, error) {
	if f.opts.URL == "" {
		return nil, errors.New("no fetch url configured")
	}

	data, err := f.download(ctx)
	if err != nil {
		return nil, err
	}

	isoYear, isoWeek := time.Now().ISOWeek()
	if f.isUnchanged(isoYear, isoWeek, data) {
		return nil, ErrUnchanged
	}

	path, err := f.archive.Save(isoWeek, data)
	if err != nil {
		return nil, err
	}
	logging.Debugf("Archived %s (%d bytes)", path, len(data))

	pages, err := f.opts.Extractor.ExtractRows(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from %s: %w", path, err)
	}
	plan, err := parser.Parse(pages)
	if err != nil {
		return nil, err
	}

	created, err := f.store.UpsertMealPlan(plan)
	if err != nil {
		return nil, err
	}
	verb := "Updated"
	if created {
		verb = "Stored"
	}
	logging.Infof("%s plan %s (%d days)", verb, plan.Key(), len(plan.Days))
	if f.cache != nil {
		f.cache.Set(plan)
	}
	if err := f.store.LogAction("FETCH_PLAN", fmt.Sprintf("url: %s, plan: %s", f.opts.URL, plan.Key())); err != nil {
		logging.Warnf("Failed to record fetch in action log: %v", err)
	}

	if f.opts.ArchiveKeep > 0 {
		if removed, err := f.archive.Prune(f.opts.ArchiveKeep); err != nil {
			logging.Warnf("Archive prune failed: %v", err)
		} else if removed > 0 {
			logging.Debugf("Pruned %d archived PDFs", removed)
		}
	}
	return plan, nil
}

// isUnchanged reports whether data matches the archived PDF for the
// current week and that week's plan is stored. Comparing bytes alone is
// not enough: a crash between archiving and storing must not mask the
// plan on the next run. Around the turn of the year the stored plan's
// calendar year can differ from the ISO year; the check then misses and
// the fetch simply reprocesses.
func (f *Fetcher) isUnchanged(year, week int, data []byte) bool {
	path, err := f.archive.Path(year, week)
	if err != nil {
		return false
	}
	old, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(old, data) {
		return false
	}
	stored, err := f.store.GetMealPlan(year, week)
	return err == nil && stored != nil
}

// download gets the PDF with capped exponential backoff between attempts.
func (f *Fetcher) download(ctx context.Context) ([]byte, error) {
	var lastErr error
	delay := f.retryBase

	for attempt := 1; attempt <= f.opts.MaxAttempts; attempt++ {
		data, err := f.downloadOnce(ctx)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if attempt == f.opts.MaxAttempts {
			break
		}
		downloadRetries.Inc()

		wait := delay
		if half := delay / 2; half > 0 {
			wait += rand.N(half)
		}
		logging.Warnf("Download attempt %d/%d failed: %v (retrying in %s)", attempt, f.opts.MaxAttempts, err, wait)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		if delay *= 2; delay > f.retryMax {
			delay = f.retryMax
		}
	}
	return nil, fmt.Errorf("download failed after %d attempts: %w", f.opts.MaxAttempts, lastErr)
}

func (f *Fetcher) downloadOnce(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.opts.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
