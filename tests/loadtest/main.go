package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
)

const (
	numWorkers   = 20
	testDuration = 10 * time.Second
)

var baseURL = "http://127.0.0.1:8787"

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

type stateBody struct {
	State struct {
		ReelsWatched int `json:"reelsWatched"`
		TimeSpent    int `json:"timeSpent"`
	} `json:"state"`
}

func main() {
	if v := os.Getenv("REELSD_URL"); v != "" {
		baseURL = strings.TrimRight(v, "/")
	}
	fmt.Println("=== reelsd Load Test ===")
	fmt.Printf("Target: %s | Workers: %d | Duration: %s\n\n", baseURL, numWorkers, testDuration)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			os.Exit(1)
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	before, err := fetchState()
	if err != nil {
		fmt.Println("FAILED: read state:", err)
		os.Exit(1)
	}

	var recorded atomic.Int64

	// Phase 1: concurrent manual reels
	fmt.Println("\n--- Phase 1: Recording reels (POST /reel) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doReel(&recorded)
	})

	// Phase 2: mixed load with the UI's read paths
	fmt.Println("\n--- Phase 2: Mixed load (40% reel, 40% state, 15% report, 5% visibility) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.40:
			return doReel(&recorded)
		case r < 0.80:
			return doGet("/state")
		case r < 0.95:
			return doGet(fmt.Sprintf("/report?days=%d", rng.Intn(30)+1))
		default:
			return doVisibility(rng.Intn(2) == 0)
		}
	})

	// Every accepted reel must be counted exactly once.
	after, err := fetchState()
	if err != nil {
		fmt.Println("FAILED: read state:", err)
		os.Exit(1)
	}
	delta := after.State.ReelsWatched - before.State.ReelsWatched
	fmt.Printf("\nAccepted reels: %d | Counter delta: %d\n", recorded.Load(), delta)
	if int64(delta) < recorded.Load() {
		fmt.Println("FAILED: lost updates")
		os.Exit(1)
	}
	fmt.Println("OK")
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	if totalOps == 0 {
		return
	}
	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

// doReel counts a 409 from an active focus window as handled, not as an error.
func doReel(recorded *atomic.Int64) result {
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/reel", "application/json", nil)
	lat := time.Since(start)
	if err != nil {
		return result{"POST /reel", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		recorded.Inc()
	}
	ok := resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusConflict
	return result{"POST /reel", resp.StatusCode, lat, !ok}
}

func doGet(path string) result {
	endpoint := "GET " + strings.SplitN(path, "?", 2)[0]
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func doVisibility(hidden bool) result {
	data, _ := json.Marshal(map[string]bool{"hidden": hidden})
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/visibility", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /visibility", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /visibility", resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func fetchState() (*stateBody, error) {
	resp, err := httpClient.Get(baseURL + "/state")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var body stateBody
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
