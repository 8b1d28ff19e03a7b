package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := flag.String("url", envOr("SMOKE_BASE_URL", "http://localhost:8080"), "server base URL")
	wait := flag.Duration("wait", 2*time.Second, "delay before the first request")
	flag.Parse()

	time.Sleep(*wait)
	client := &http.Client{Timeout: 60 * time.Second}
	sessionID := fmt.Sprintf("smoke-%d", time.Now().Unix())

	steps := []struct {
		name   string
		method string
		path   string
		body   any
		check  func(map[string]any) error
	}{
		{"service descriptor", http.MethodGet, "/", nil, requireKey("endpoints")},
		{"score buildings", http.MethodPost, "/score", nil, requireKey("summary")},
		{"fetch dataset", http.MethodGet, "/data", nil, requireKey("features")},
		{"chat", http.MethodPost, "/chat", map[string]string{
			"sessionId": sessionID,
			"message":   "Can you find me a good location for a small cafe?",
		}, requireKey("response")},
		{"recommended subset", http.MethodGet, "/data?recommended=true", nil, requireKey("features")},
	}

	fmt.Println("Starting smoke test against", *baseURL)
	for i, step := range steps {
		fmt.Printf("%d. %s...\n", i+1, step.name)
		body, err := sendRequest(client, step.method, *baseURL+step.path, step.body)
		if err == nil {
			err = step.check(body)
		}
		if err != nil {
			fmt.Printf("FAILED: %s: %v\n", step.name, err)
			os.Exit(1)
		}
		fmt.Printf("PASSED: %s\n", step.name)
	}
}

func sendRequest(client *http.Client, method, url string, payload any) (map[string]any, error) {
	var body io.Reader
	if payload != nil {
		jsonBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(jsonBytes)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, raw)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return out, nil
}

func requireKey(key string) func(map[string]any) error {
	return func(body map[string]any) error {
		if _, ok := body[key]; !ok {
			return fmt.Errorf("response has no %q field", key)
		}
		return nil
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
