package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

// End-to-end smoke suite. Expects a running API server (and its
// database) at API_URL or http://localhost:8080. Skipped when the
// server is unreachable.

var (
	baseURL = "http://localhost:8080/api/v1"

	ownerToken   string
	staffToken   string
	founderEmail string
	ownerID      string
	clinicID     string
	petID        string
	serviceID    string
)

// APIResponse matches the handler envelope.
type APIResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type TestResponse struct {
	HTTPStatus int
	Status     string
	Message    string
	Data       map[string]interface{}
	RawData    string
}

func (r TestResponse) IsSuccess() bool {
	return r.Status == "success"
}

func (r TestResponse) GetString(key string) string {
	if r.Data == nil {
		return ""
	}
	if v, ok := r.Data[key].(string); ok {
		return v
	}
	return ""
}

func checkAPIServer() error {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(baseURL + "/health/live")
	if err != nil {
		return fmt.Errorf("API server not reachable: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("liveness check returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func TestMain(m *testing.M) {
	if url := os.Getenv("API_URL"); url != "" {
		baseURL = url + "/api/v1"
	}

	if err := checkAPIServer(); err != nil {
		fmt.Printf("Skipping API tests: %v\n", err)
		os.Exit(0)
	}

	setupAccounts()
	setupClinic()

	os.Exit(m.Run())
}

// setupAccounts registers a fresh owner whose account later becomes the
// clinic's first staff member, plus a second owner for booking flows.
func setupAccounts() {
	founderEmail = uniqueEmail("founder")
	registerResp := makeRequest("POST", "/auth/register", map[string]string{
		"email":    founderEmail,
		"password": "sup3rsecret",
		"name":     "Test Founder",
		"phone":    "+15550100",
	}, "")
	if !registerResp.IsSuccess() {
		fmt.Printf("Failed to register founder: %s\n", registerResp.Message)
		os.Exit(1)
	}

	staffToken = login(founderEmail, "sup3rsecret")

	ownerEmail := uniqueEmail("owner")
	ownerResp := makeRequest("POST", "/auth/register", map[string]string{
		"email":    ownerEmail,
		"password": "sup3rsecret",
		"name":     "Test Owner",
		"phone":    "+15550101",
	}, "")
	if !ownerResp.IsSuccess() {
		fmt.Printf("Failed to register owner: %s\n", ownerResp.Message)
		os.Exit(1)
	}
	ownerID = ownerResp.GetString("id")
	ownerToken = login(ownerEmail, "sup3rsecret")
}

func setupClinic() {
	createResp := makeRequest("POST", "/clinics", map[string]interface{}{
		"name":    uniqueName("Happy Paws"),
		"address": "12 Test Lane",
		"city":    "Testville",
		"phone":   "+15550102",
		"email":   uniqueEmail("clinic"),
	}, staffToken)
	if !createResp.IsSuccess() {
		fmt.Printf("Failed to create clinic: %s\n", createResp.Message)
		os.Exit(1)
	}
	clinicID = createResp.GetString("id")

	// Creating a clinic promotes the creator to staff. The promotion
	// only lands in a fresh token.
	staffToken = login(founderEmail, "sup3rsecret")
}

func login(email, password string) string {
	resp := makeRequest("POST", "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	if !resp.IsSuccess() {
		fmt.Printf("Failed to login as %s: %s\n", email, resp.Message)
		os.Exit(1)
	}
	token := resp.GetString("access_token")
	if token == "" {
		fmt.Println("Login response carried no access token")
		os.Exit(1)
	}
	return token
}

func makeRequest(method, path string, body interface{}, token string) TestResponse {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return TestResponse{Status: "error", Message: err.Error()}
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		return TestResponse{Status: "error", Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	response, err := client.Do(req)
	if err != nil {
		return TestResponse{Status: "error", Message: err.Error()}
	}
	defer response.Body.Close()

	respBody, err := io.ReadAll(response.Body)
	if err != nil {
		return TestResponse{Status: "error", Message: err.Error()}
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return TestResponse{
			HTTPStatus: response.StatusCode,
			Status:     "error",
			Message:    fmt.Sprintf("failed to parse response: %v (raw: %s)", err, respBody),
		}
	}

	testResp := TestResponse{
		HTTPStatus: response.StatusCode,
		Status:     apiResp.Status,
		Message:    apiResp.Message,
		RawData:    string(apiResp.Data),
	}
	if len(apiResp.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(apiResp.Data, &data); err == nil {
			testResp.Data = data
		}
	}
	return testResp
}
