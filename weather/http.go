// weather/http.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package weather

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"

	"github.com/windtrace/routecast/geo"
	"github.com/windtrace/routecast/routing"
	"github.com/windtrace/routecast/rlog"
)

// gridCacheTTL bounds how long a fetched Grid is reused for an identical
// bbox/horizon/hour-rounded-departure key, grounded on the teacher's
// manifest.go decompressed-timestamp cache
// (expirable.NewLRU[string, []time.Time](32, nil, 4*time.Hour)). A
// request burst against the same corridor (e.g. a client retrying or
// requesting several boat classes for the same start/end/time) reuses
// the grid instead of re-hitting the upstream provider.
const gridCacheTTL = 5 * time.Minute
const gridCacheSize = 32

// maxBatchPoints bounds how many grid points go into a single upstream
// request, per SPEC_FULL §4.3.
const maxBatchPoints = 100

// maxInFlight is the fan-out cap for concurrent upstream requests, per
// SPEC_FULL §4.3/§5 ("courteous usage"), grounded on the teacher's
// ResourcesWXProvider eg.SetLimit(32) idiom in server/wx.go, scaled down
// to this spec's explicit cap of 4.
const maxInFlight = 4

const maxRetries = 3

// HTTPProvider fetches weather from a configured upstream HTTP API,
// batching points and retrying transient failures with backoff.
type HTTPProvider struct {
	BaseURL    string
	Client     *http.Client
	Log        *rlog.Logger
	BatchDelay time.Duration // inter-retry backoff base; defaults to 500ms

	cacheOnce sync.Once
	cache     *expirable.LRU[string, *Grid]
}

func (p *HTTPProvider) gridCache() *expirable.LRU[string, *Grid] {
	p.cacheOnce.Do(func() {
		p.cache = expirable.NewLRU[string, *Grid](gridCacheSize, nil, gridCacheTTL)
	})
	return p.cache
}

// gridCacheKey rounds departure to the hour (the grid's own time
// resolution) so repeated calls within the same request burst hit the
// same entry even if departure carries sub-hour jitter.
func gridCacheKey(bbox routing.Bounds, hours int, departure time.Time) string {
	return fmt.Sprintf("%.4f,%.4f,%.4f,%.4f|%d|%d",
		bbox.MinLat, bbox.MaxLat, bbox.MinLng, bbox.MaxLng, hours, departure.Truncate(time.Hour).Unix())
}

type batchRequest struct {
	Points    []geo.Coordinate `json:"points"`
	Hours     int              `json:"hours"`
	Departure time.Time        `json:"departure"`
}

type batchResponse struct {
	// Samples is indexed in parallel with the request's Points, each
	// holding one wireSample per requested hour (len == Hours+1).
	Samples [][]wireSample `json:"samples"`
}

type wireSample struct {
	WindSpeedKt  float64   `json:"windSpeedKt"`
	WindGustKt   float64   `json:"windGustKt"`
	WindFromDeg  float64   `json:"windFromDeg"`
	WaveHeightM  float64   `json:"waveHeightM"`
	PrecipMMH    float64   `json:"precipMmPerHr"`
	VisibilityKm float64   `json:"visibilityKm"`
	TemperatureC float64   `json:"temperatureC"`
	Time         time.Time `json:"time"`
}

func (p *HTTPProvider) FetchArea(ctx context.Context, bbox routing.Bounds, hours int, departure time.Time) (*Grid, error) {
	if hours < 1 {
		hours = 1
	}

	key := gridCacheKey(bbox, hours, departure)
	if g, ok := p.gridCache().Get(key); ok {
		if p.Log != nil {
			p.Log.Debugf("weather: grid cache hit for %s", key)
		}
		return g, nil
	}

	lats, lngs := GridAxes(bbox, GridSpacingNM)
	times := make([]time.Time, hours+1)
	for i := range times {
		times[i] = departure.Add(time.Duration(i) * time.Hour)
	}

	points := make([]geo.Coordinate, 0, len(lats)*len(lngs))
	for _, lat := range lats {
		for _, lng := range lngs {
			points = append(points, geo.Coordinate{Lat: lat, Lng: lng})
		}
	}

	batches := chunkPoints(points, maxBatchPoints)
	// results[i] is the hourly series for points[i].
	results := make([][]wireSample, len(points))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxInFlight)

	var mu sync.Mutex
	offset := 0
	for _, batch := range batches {
		batch := batch
		start := offset
		offset += len(batch)
		eg.Go(func() error {
			series, err := p.fetchBatchWithRetry(ctx, batch, hours, departure)
			if err != nil {
				return err
			}
			mu.Lock()
			copy(results[start:start+len(batch)], series)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("weather: provider fetch failed: %w", err)
	}

	samples := make([][][]Sample, len(times))
	for ti := range times {
		samples[ti] = make([][]Sample, len(lats))
		for li := range lats {
			samples[ti][li] = make([]Sample, len(lngs))
		}
	}
	pi := 0
	for li, lat := range lats {
		for lj, lng := range lngs {
			series := results[pi]
			for ti := range times {
				var ws wireSample
				if ti < len(series) {
					ws = series[ti]
				}
				samples[ti][li][lj] = Sample{
					Position:     geo.Coordinate{Lat: lat, Lng: lng},
					Time:         times[ti],
					WindSpeedKt:  ws.WindSpeedKt,
					WindGustKt:   ws.WindGustKt,
					WindFromDeg:  geo.NormalizeBearing(ws.WindFromDeg),
					WaveHeightM:  ws.WaveHeightM,
					PrecipMMH:    ws.PrecipMMH,
					VisibilityKm: ws.VisibilityKm,
					TemperatureC: ws.TemperatureC,
				}
			}
			pi++
		}
	}

	grid, err := NewGrid(lats, lngs, times, samples)
	if err != nil {
		return nil, err
	}
	p.gridCache().Add(key, grid)
	return grid, nil
}

func chunkPoints(points []geo.Coordinate, size int) [][]geo.Coordinate {
	var chunks [][]geo.Coordinate
	for i := 0; i < len(points); i += size {
		end := i + size
		if end > len(points) {
			end = len(points)
		}
		chunks = append(chunks, points[i:end])
	}
	return chunks
}

// fetchBatchWithRetry performs the upstream POST, retrying idempotent
// failures a bounded number of times with backoff, grounded on the
// teacher's callWithTimeout pattern in server/wx.go.
func (p *HTTPProvider) fetchBatchWithRetry(ctx context.Context, points []geo.Coordinate, hours int, departure time.Time) ([][]wireSample, error) {
	delay := p.BatchDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			if p.Log != nil {
				p.Log.Warnf("weather: retrying batch fetch (attempt %d): %v", attempt+1, lastErr)
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay * time.Duration(int64(1)<<uint(attempt))):
			}
		}

		series, err := p.fetchBatch(ctx, points, hours, departure)
		if err == nil {
			return series, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (p *HTTPProvider) fetchBatch(ctx context.Context, points []geo.Coordinate, hours int, departure time.Time) ([][]wireSample, error) {
	body, err := json.Marshal(batchRequest{Points: points, Hours: hours, Departure: departure})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/weather-batch", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather: upstream returned %s", resp.Status)
	}

	var decoded batchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("weather: decoding upstream response: %w", err)
	}
	if len(decoded.Samples) != len(points) {
		return nil, fmt.Errorf("weather: upstream returned %d point series, want %d", len(decoded.Samples), len(points))
	}

	return decoded.Samples, nil
}
