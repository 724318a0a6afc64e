package connection_test

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"testing"

	"github.com/ajisaka/devmatch/test/helper"
	"gotest.tools/assert"
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

type testUser struct {
	id    uint
	token string
}

func signedUpUser(t *testing.T, username, email string) testUser {
	t.Helper()

	signedUp, err := helper.SignUpUser(t, username, "password123", email)
	if err != nil {
		t.Fatalf("Failed to sign up user: %s", err)
	}

	token, err := helper.SignInUser(t, email, username, "password123")
	if err != nil {
		t.Fatalf("Failed to sign in: %s", err)
	}

	return testUser{id: signedUp.ID, token: token}
}

func TestRequestAcceptFlow(t *testing.T) {
	alice := signedUpUser(t, "conalice", "conalice@example.com")
	bob := signedUpUser(t, "conbob", "conbob@example.com")

	status := helper.Do(t, http.MethodPost, fmt.Sprintf("/v1/connections/%d/request", bob.id), alice.token)
	assert.Equal(t, http.StatusOK, status)

	// Retry is a no-op success.
	status = helper.Do(t, http.MethodPost, fmt.Sprintf("/v1/connections/%d/request", bob.id), alice.token)
	assert.Equal(t, http.StatusOK, status)

	bobState := helper.GetRelationshipState(t, bob.token)
	assert.Equal(t, 1, len(bobState.Incoming))
	assert.Equal(t, alice.id, bobState.Incoming[0])

	status = helper.Do(t, http.MethodPost, fmt.Sprintf("/v1/connections/%d/accept", alice.id), bob.token)
	assert.Equal(t, http.StatusOK, status)

	// Both sides see the mutual edge and the pending edge is gone.
	aliceState := helper.GetRelationshipState(t, alice.token)
	assert.Equal(t, 0, len(aliceState.Sent))
	assert.Assert(t, containsID(aliceState.Mutual, bob.id))

	bobState = helper.GetRelationshipState(t, bob.token)
	assert.Equal(t, 0, len(bobState.Incoming))
	assert.Assert(t, containsID(bobState.Mutual, alice.id))
}

func TestRejectAllowsRetry(t *testing.T) {
	carol := signedUpUser(t, "concarol", "concarol@example.com")
	dave := signedUpUser(t, "condave", "condave@example.com")

	status := helper.Do(t, http.MethodPost, fmt.Sprintf("/v1/connections/%d/request", dave.id), carol.token)
	assert.Equal(t, http.StatusOK, status)

	status = helper.Do(t, http.MethodPost, fmt.Sprintf("/v1/connections/%d/reject", carol.id), dave.token)
	assert.Equal(t, http.StatusOK, status)

	daveState := helper.GetRelationshipState(t, dave.token)
	assert.Equal(t, 0, len(daveState.Incoming))
	assert.Equal(t, 0, len(daveState.Mutual))

	// Rejection is soft; the same request goes through again.
	status = helper.Do(t, http.MethodPost, fmt.Sprintf("/v1/connections/%d/request", dave.id), carol.token)
	assert.Equal(t, http.StatusOK, status)
}

func TestAcceptWithoutPendingConflicts(t *testing.T) {
	erin := signedUpUser(t, "conerin", "conerin@example.com")
	frank := signedUpUser(t, "confrank", "confrank@example.com")

	status := helper.Do(t, http.MethodPost, fmt.Sprintf("/v1/connections/%d/accept", erin.id), frank.token)
	assert.Equal(t, http.StatusConflict, status)
}

func TestPassBlocksReverseRequest(t *testing.T) {
	grace := signedUpUser(t, "congrace", "congrace@example.com")
	heidi := signedUpUser(t, "conheidi", "conheidi@example.com")

	status := helper.Do(t, http.MethodPost, fmt.Sprintf("/v1/matches/%d/pass", heidi.id), grace.token)
	assert.Equal(t, http.StatusOK, status)

	// The passed profile hits a wall in the reverse direction.
	status = helper.Do(t, http.MethodPost, fmt.Sprintf("/v1/connections/%d/request", grace.id), heidi.token)
	assert.Equal(t, http.StatusForbidden, status)

	// The passer is still free to reach out.
	status = helper.Do(t, http.MethodPost, fmt.Sprintf("/v1/connections/%d/request", heidi.id), grace.token)
	assert.Equal(t, http.StatusOK, status)
}

func TestSelfReferenceRejected(t *testing.T) {
	ivan := signedUpUser(t, "conivan", "conivan@example.com")

	status := helper.Do(t, http.MethodPost, fmt.Sprintf("/v1/connections/%d/request", ivan.id), ivan.token)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUnknownTargetIsNotFound(t *testing.T) {
	judy := signedUpUser(t, "conjudy", "conjudy@example.com")

	status := helper.Do(t, http.MethodPost, "/v1/connections/999999/request", judy.token)
	assert.Equal(t, http.StatusNotFound, status)
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
