package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL        = "http://127.0.0.1:18090"
	numWorkers     = 50
	testDuration   = 10 * time.Second
	tabCloseSaving = 0.5
)

var idleStates = []string{"active", "idle", "locked"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
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

type estimate struct {
	TotalSaved float64 `json:"totalSaved"`
	Streak     int     `json:"streak"`
}

// credited counts the savings the server acknowledged, in half grams.
var credited atomic.Int64

func main() {
	fmt.Println("=== EcoTrack Race Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

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
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	before, err := getEstimate()
	if err != nil {
		fmt.Printf("FAILED: %s\n", err)
		return
	}

	// Phase 1: concurrent tab events racing on the shared record
	fmt.Println("\n--- Phase 1: Tab events (50% created, 50% closed) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.5 {
			return doEvent("/events/tab-created", "")
		}
		return doTabClosed()
	})

	// Phase 2: events mixed with UI reads
	fmt.Println("\n--- Phase 2: Mixed load (60% events, 40% UI) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.25:
			return doTabClosed()
		case r < 0.40:
			return doEvent("/events/tab-created", "")
		case r < 0.50:
			return doEvent("/events/idle", fmt.Sprintf(`{"state":%q}`, idleStates[rng.Intn(len(idleStates))]))
		case r < 0.60:
			return doEvent("/events/tab-count", fmt.Sprintf(`{"count":%d}`, rng.Intn(40)))
		case r < 0.75:
			return doGet("/estimate")
		case r < 0.90:
			return doGet("/tips")
		default:
			return doGet("/weekly")
		}
	})

	after, err := getEstimate()
	if err != nil {
		fmt.Printf("FAILED: %s\n", err)
		return
	}

	expected := float64(credited.Load()) * tabCloseSaving
	got := after.TotalSaved - before.TotalSaved
	fmt.Printf("\nSaved CO2 delta: %.1f | acknowledged closes: %d | expected: %.1f\n", got, credited.Load(), expected)
	if math.Abs(got-expected) > 1e-6 {
		fmt.Println("FAILED: lost or duplicated updates")
		return
	}
	fmt.Println("OK: no lost updates")
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

	fmt.Printf("\n  %-24s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 90))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-24s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 90))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(max(totalOps, 1))*100, rps)
}

func doTabClosed() result {
	r := doEvent("/events/tab-closed", "")
	if !r.err {
		credited.Add(1)
	}
	return r
}

func doEvent(path, body string) result {
	start := time.Now()
	resp, err := httpClient.Post(baseURL+path, "application/json", bytes.NewReader([]byte(body)))
	lat := time.Since(start)
	endpoint := "POST " + path
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusAccepted}
}

func doGet(path string) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	endpoint := "GET " + path
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func getEstimate() (estimate, error) {
	var e estimate
	resp, err := httpClient.Get(baseURL + "/estimate")
	if err != nil {
		return e, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return e, fmt.Errorf("GET /estimate: status %d", resp.StatusCode)
	}
	return e, json.NewDecoder(resp.Body).Decode(&e)
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
