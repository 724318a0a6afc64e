package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"testing"

	"github.com/ajisaka/devmatch/internal/entity"
	"github.com/ajisaka/devmatch/pkg/http_util"
	"github.com/ajisaka/devmatch/test/helper"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	resources, err := helper.SetupTestServer(context.TODO())
	var code int

	if err != nil {
		log.Printf("Failed to set up test server: %s", err)
		code = 1
	} else {
		code = m.Run()
	}

	resources.CleanupTestServer()
	os.Exit(code)
}

func TestSignUp(t *testing.T) {
	reqBody := entity.CreateUserRequest{
		Name:     "testname",
		Username: "testuser",
		Password: "password123",
		Email:    "test@example.com",
	}
	body, _ := json.Marshal(reqBody)

	req, err := http.NewRequest(http.MethodPost, "http://localhost:8080/v1/auth/sign-up", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	response := http_util.HTTPResponse[entity.SignUpResponse]{}
	response, err = http_util.DecodeBody[http_util.HTTPResponse[entity.SignUpResponse]](bodyBytes, response)
	if err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	assert.NotZero(t, response.Data.ID)
	assert.Equal(t, "testuser", response.Data.Username)
}

func TestSignUpRejectsIncompleteRequest(t *testing.T) {
	body, _ := json.Marshal(entity.CreateUserRequest{Username: "nopassword"})

	resp, err := http.Post("http://localhost:8080/v1/auth/sign-up", "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSignIn(t *testing.T) {
	reqBody := entity.SignInRequest{
		Email:    "asd@asd.com",
		Username: "testuser123",
		Password: "password123",
	}

	_, err := helper.SignUpUser(t, reqBody.Username, reqBody.Password, reqBody.Email)
	if err != nil {
		t.Fatalf("Failed to Sign Up: %v", err)
	}

	body, _ := json.Marshal(reqBody)

	req, err := http.NewRequest(http.MethodPost, "http://localhost:8080/v1/auth/sign-in", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	response := entity.SignInResponse{}
	response, err = http_util.DecodeBody[entity.SignInResponse](bodyBytes, response)
	if err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	assert.NotEmpty(t, response.Token)
}

func TestSignInWrongPassword(t *testing.T) {
	_, err := helper.SignUpUser(t, "wrongpass", "password123", "wrongpass@example.com")
	if err != nil {
		t.Fatalf("Failed to Sign Up: %v", err)
	}

	body, _ := json.Marshal(entity.SignInRequest{
		Email:    "wrongpass@example.com",
		Password: "not-the-password",
	})

	resp, err := http.Post("http://localhost:8080/v1/auth/sign-in", "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSyncIdentity(t *testing.T) {
	reqBody := entity.SyncIdentityRequest{
		Provider:  "github",
		Email:     "octocat@example.com",
		Name:      "Octo Cat",
		AvatarURL: "https://example.com/octocat.png",
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post("http://localhost:8080/v1/auth/sync", "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	response := http_util.HTTPResponse[entity.SyncIdentityResponse]{}
	response, err = http_util.DecodeBody[http_util.HTTPResponse[entity.SyncIdentityResponse]](bodyBytes, response)
	if err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	assert.NotEmpty(t, response.Data.Token)
	assert.Equal(t, entity.ProviderGithub, response.Data.Profile.Provider)

	// Syncing the same identity again updates in place instead of creating a
	// second profile.
	firstID := response.Data.Profile.ID

	resp2, err := http.Post("http://localhost:8080/v1/auth/sync", "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp2.Body.Close()

	bodyBytes, err = io.ReadAll(resp2.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	response = http_util.HTTPResponse[entity.SyncIdentityResponse]{}
	response, err = http_util.DecodeBody[http_util.HTTPResponse[entity.SyncIdentityResponse]](bodyBytes, response)
	if err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	assert.Equal(t, firstID, response.Data.Profile.ID)
}

func TestSyncIdentityRejectsUnknownProvider(t *testing.T) {
	body, _ := json.Marshal(entity.SyncIdentityRequest{
		Provider: "myspace",
		Email:    "someone@example.com",
	})

	resp, err := http.Post("http://localhost:8080/v1/auth/sync", "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
