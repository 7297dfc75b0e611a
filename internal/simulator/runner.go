package simulator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/campnav/internal/domain/model"
	"github.com/okian/campnav/pkg/logger"
)

// ErrTimeout is returned when the service does not settle in time.
var ErrTimeout = errors.New("service did not settle")

// Run plays one device session against the service: report the
// authorization, walk the campus loop, tap locate and check the result.
func Run(ctx context.Context, cfg Config, log logger.Logger) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	client := NewHTTPClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting campnav device session",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("status", string(cfg.Status)),
		logger.Int("points", cfg.Points),
		logger.Duration("interval", cfg.Interval),
		logger.Duration("timeout", cfg.Timeout),
	)

	// Step 1: Check service health
	if err := client.Get(ctx, "/healthz", http.StatusOK, nil); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}
	// Commands left over from an earlier session are not ours.
	if _, err := drainCommands(ctx, client); err != nil {
		return stats, err
	}

	// Step 2: Report authorization and wait for it to apply
	if err := client.Post(ctx, "/device/authorization", map[string]any{"status": cfg.Status}, http.StatusAccepted, nil); err != nil {
		return stats, fmt.Errorf("report authorization: %w", err)
	}
	wantPermission := model.PermissionFromStatus(cfg.Status)
	if _, err := waitFor(ctx, client, cfg.Timeout, func(s Snapshot) bool {
		return s.Permission == wantPermission
	}); err != nil {
		return stats, fmt.Errorf("permission %s: %w", wantPermission, err)
	}

	// Step 3: Walk the loop
	last, err := walk(ctx, client, cfg, stats, log)
	if err != nil {
		return stats, err
	}
	if last != nil {
		if _, err := waitFor(ctx, client, cfg.Timeout, func(s Snapshot) bool {
			return s.Position != nil && sameCoordinate(*s.Position, *last)
		}); err != nil {
			return stats, fmt.Errorf("last position: %w", err)
		}
	}

	// Step 4: Tap locate and verify
	var resp LocateResponse
	if err := client.Post(ctx, "/location/locate", nil, http.StatusOK, &resp); err != nil {
		return stats, fmt.Errorf("locate: %w", err)
	}
	stats.Outcome = resp.Outcome
	if err := verifyLocate(resp, cfg.Status, last); err != nil {
		return stats, err
	}

	cmds, err := drainCommands(ctx, client)
	if err != nil {
		return stats, err
	}
	stats.Commands = cmds
	stats.Duration = time.Since(stats.StartTime)

	displayFinalStats(ctx, log, stats)
	return stats, nil
}

// walk reports the path one position per request. A position refused with
// 429 is counted and skipped.
func walk(ctx context.Context, client *HTTPClient, cfg Config, stats *Stats, log logger.Logger) (*model.Coordinate, error) {
	var last *model.Coordinate
	for i, p := range WalkPath(model.CampusCenter, cfg.Points) {
		body := map[string]any{"locations": []model.Coordinate{p}}
		err := client.Post(ctx, "/device/locations", body, http.StatusAccepted, nil)
		switch {
		case err == nil:
			stats.PositionsReported++
			last = &p
		case errors.Is(err, ErrStatus):
			stats.PositionsRejected++
			log.Warn(ctx, "position rejected", logger.Int("index", i), logger.Error(err))
		default:
			return last, fmt.Errorf("report position %d: %w", i, err)
		}
		if cfg.Verbose {
			log.Info(ctx, "position reported",
				logger.Int("index", i),
				logger.Float64("lat", p.Latitude),
				logger.Float64("lon", p.Longitude),
			)
		}
		if !sleep(ctx, cfg.Interval) {
			return last, ctx.Err()
		}
	}
	return last, nil
}

// waitFor polls GET /location until cond holds or timeout passes.
func waitFor(ctx context.Context, client *HTTPClient, timeout time.Duration, cond func(Snapshot) bool) (Snapshot, error) {
	deadline := time.Now().Add(timeout)
	for {
		var s Snapshot
		if err := client.Get(ctx, "/location", http.StatusOK, &s); err != nil {
			return s, err
		}
		if cond(s) {
			return s, nil
		}
		if time.Now().After(deadline) {
			return s, ErrTimeout
		}
		if !sleep(ctx, pollInterval) {
			return s, ctx.Err()
		}
	}
}

func drainCommands(ctx context.Context, client *HTTPClient) ([]string, error) {
	var resp struct {
		Commands []Command `json:"commands"`
	}
	if err := client.Get(ctx, "/device/commands", http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("drain commands: %w", err)
	}
	names := make([]string, 0, len(resp.Commands))
	for _, c := range resp.Commands {
		names = append(names, c.Name)
	}
	return names, nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// displayFinalStats logs the session statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	log.Info(ctx, "final statistics",
		logger.Int("positionsReported", stats.PositionsReported),
		logger.Int("positionsRejected", stats.PositionsRejected),
		logger.String("outcome", stats.Outcome),
		logger.Any("commands", stats.Commands),
		logger.String("duration", stats.Duration.String()),
	)
}
