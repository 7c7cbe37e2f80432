package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"code-review-service/api"

	"github.com/google/uuid"
	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	defaultTargetHost = "http://localhost:8081" // e2e окружение
	rps               = 5
	duration          = 3 * time.Minute
)

var (
	targetHost    = getEnv("LOAD_TARGET", defaultTargetHost)
	webhookSecret = os.Getenv("GITHUB_WEBHOOK_SECRET")

	prs     []uuid.UUID
	reviews []uuid.UUID
	httpc   = &http.Client{Timeout: 10 * time.Second}
)

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getJSON(url string, out any) (int, error) {
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Accept", "application/json")
	resp, err := httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return resp.StatusCode, nil
	}
	return resp.StatusCode, json.NewDecoder(resp.Body).Decode(out)
}

// Seed: собираем существующие PR и ревью, чтобы читать реальные записи
func seedData() error {
	log.Println("Seeding: loading pull requests...")

	var prResp struct {
		PullRequests []api.PullRequest `json:"pull_requests"`
	}
	status, err := getJSON(targetHost+"/pull-requests?limit=200", &prResp)
	if err != nil {
		return err
	}
	if status >= 400 {
		log.Printf("WARN pull-requests returned %d\n", status)
	}
	for _, pr := range prResp.PullRequests {
		prs = append(prs, pr.Id)
	}

	log.Println("Seeding: loading reviews...")

	var reviewResp api.ReviewList
	status, err = getJSON(targetHost+"/reviews?limit=200", &reviewResp)
	if err != nil {
		return err
	}
	if status >= 400 {
		log.Printf("WARN reviews returned %d\n", status)
	}
	for _, r := range reviewResp.Reviews {
		reviews = append(reviews, r.Id)
	}

	log.Printf("Seed completed: prs=%d reviews=%d\n", len(prs), len(reviews))
	return nil
}

func sign(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func get(t *vegeta.Target, url string) {
	t.Method = http.MethodGet
	t.URL = url
	t.Body = nil
	t.Header = map[string][]string{"Accept": {"application/json"}}
}

// Targeter
func makeTargeter() vegeta.Targeter {
	return func(t *vegeta.Target) error {
		r := rand.Float64()

		// 40% GET /reviews/{id} и его находки
		if r < 0.40 && len(reviews) > 0 {
			id := reviews[rand.Intn(len(reviews))]
			if r < 0.20 {
				get(t, fmt.Sprintf("%s/reviews/%s", targetHost, id))
			} else {
				get(t, fmt.Sprintf("%s/reviews/%s/findings?severity=critical", targetHost, id))
			}
			return nil
		}

		// 25% GET /reviews со страницами
		if r < 0.65 {
			get(t, fmt.Sprintf("%s/reviews?limit=20&offset=%d", targetHost, rand.Intn(5)*20))
			return nil
		}

		// 20% GET /pull-requests/{id} или список
		if r < 0.85 {
			if len(prs) > 0 {
				get(t, fmt.Sprintf("%s/pull-requests/%s", targetHost, prs[rand.Intn(len(prs))]))
			} else {
				get(t, targetHost+"/pull-requests?state=open")
			}
			return nil
		}

		// 10% GET /stats
		if r < 0.95 {
			get(t, targetHost+"/stats")
			return nil
		}

		// 4% ping вебхука
		if r < 0.99 {
			body := []byte(`{"zen":"load test"}`)
			t.Method = http.MethodPost
			t.URL = targetHost + "/webhooks/github"
			t.Body = body
			t.Header = map[string][]string{
				"Content-Type":      {"application/json"},
				"X-GitHub-Event":    {"ping"},
				"X-GitHub-Delivery": {uuid.NewString()},
			}
			if webhookSecret != "" {
				t.Header.Set("X-Hub-Signature-256", sign(body))
			}
			return nil
		}

		// 1% POST /reviews для несуществующего PR (404 без обращения к GitHub)
		body, _ := json.Marshal(api.PostReviewsJSONBody{PullRequestId: uuid.New()})
		t.Method = http.MethodPost
		t.URL = targetHost + "/reviews"
		t.Body = body
		t.Header = map[string][]string{"Content-Type": {"application/json"}}
		return nil
	}
}

// Attack
func runAttack() {
	rate := vegeta.Rate{Freq: rps, Per: time.Second}
	attacker := vegeta.NewAttacker()
	targeter := makeTargeter()

	var metrics vegeta.Metrics

	log.Printf("Starting attack: %s for %s", targetHost, duration)
	for res := range attacker.Attack(targeter, rate, duration, "load-test") {
		metrics.Add(res)
	}
	metrics.Close()

	fmt.Println("=== Results ===")
	fmt.Printf("Requests: %d\n", metrics.Requests)
	fmt.Printf("Success rate: %.4f%%\n", metrics.Success*100)
	fmt.Printf("Latency mean: %s\n", metrics.Latencies.Mean)
	fmt.Printf("Latency P95: %s\n", metrics.Latencies.P95)
	fmt.Printf("Latency P99: %s\n", metrics.Latencies.P99)
	fmt.Printf("Status codes: %v\n", metrics.StatusCodes)
}

func main() {
	if err := seedData(); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}

	runAttack()
}
