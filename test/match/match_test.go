package match_test

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"testing"

	"github.com/ajisaka/devmatch/internal/entity"
	"github.com/ajisaka/devmatch/test/helper"
	"gotest.tools/assert"
)

var globalResources *helper.TestServerResources

func TestMain(m *testing.M) {
	resources, err := helper.SetupTestServer(context.TODO())
	var code int

	if err != nil {
		log.Printf("Failed to set up test server: %s", err)
		code = 1
	} else {
		globalResources = resources
		code = m.Run()
	}

	resources.CleanupTestServer()
	os.Exit(code)
}

func onboardedToken(t *testing.T, username, email, schedule string) string {
	t.Helper()

	_, err := helper.SignUpUser(t, username, "password123", email)
	if err != nil {
		t.Fatalf("Failed to sign up user: %s", err)
	}

	token, err := helper.SignInUser(t, email, username, "password123")
	if err != nil {
		t.Fatalf("Failed to sign in: %s", err)
	}

	helper.OnboardUser(t, token,
		entity.QuizAnswers{
			1: entity.CardAnswer(schedule),
			4: entity.CardAnswer("Tabs"),
		},
		entity.MemeReactions{
			{MemeID: "Git Merge Conflict", Reaction: "😂"},
		},
	)
	return token
}

// Seed a pool of onboarded profiles and read matches: the list is bounded,
// duplicate-free and score-descending on the first entry.
func TestGetMatches(t *testing.T) {
	_, err := helper.PopulateProfiles(globalResources.ORM, 5)
	if err != nil {
		t.Fatalf("Failed to populate profiles: %s", err)
	}

	token := onboardedToken(t, "matchuser1", "matchuser1@example.com", "Night")

	matches := helper.GetMatches(t, token, 0)

	assert.Assert(t, len(matches) > 0)
	assert.Assert(t, len(matches) <= 10)

	seen := map[uint]bool{}
	for _, m := range matches {
		assert.Assert(t, !seen[m.Profile.ID], "duplicate candidate %d", m.Profile.ID)
		seen[m.Profile.ID] = true
		assert.Assert(t, m.Score >= 0 && m.Score <= 100)
	}
}

func TestGetMatchesHonorsLimit(t *testing.T) {
	_, err := helper.PopulateProfiles(globalResources.ORM, 4)
	if err != nil {
		t.Fatalf("Failed to populate profiles: %s", err)
	}

	token := onboardedToken(t, "matchuser2", "matchuser2@example.com", "Morning")

	matches := helper.GetMatches(t, token, 2)
	assert.Assert(t, len(matches) <= 2)
}

// Passing a candidate removes it from subsequent match lists and records the
// passed edge.
func TestPassRemovesCandidate(t *testing.T) {
	_, err := helper.PopulateProfiles(globalResources.ORM, 3)
	if err != nil {
		t.Fatalf("Failed to populate profiles: %s", err)
	}

	token := onboardedToken(t, "matchuser3", "matchuser3@example.com", "Flexible")

	matches := helper.GetMatches(t, token, 0)
	assert.Assert(t, len(matches) > 0)
	passedID := matches[0].Profile.ID

	status := helper.Do(t, http.MethodPost, fmt.Sprintf("/v1/matches/%d/pass", passedID), token)
	assert.Equal(t, http.StatusOK, status)

	for _, m := range helper.GetMatches(t, token, 0) {
		assert.Assert(t, m.Profile.ID != passedID)
	}

	state := helper.GetRelationshipState(t, token)
	assert.Assert(t, containsID(state.Passed, passedID))
}

func TestGetMatchesRequiresAuth(t *testing.T) {
	status := helper.Do(t, http.MethodGet, "/v1/matches", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
