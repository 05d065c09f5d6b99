package tests

import (
	"context"
	"testing"
	"time"

	"codetrack/backend/activity"
	"codetrack/backend/platform"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient stands in for the scraping collaborator.
type stubClient struct {
	history []platform.DaySubmissions
	stats   platform.ProfileStats
	err     error
}

func (s *stubClient) FetchSubmissionHistory(ctx context.Context, handle string) ([]platform.DaySubmissions, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.history, nil
}

func (s *stubClient) FetchProfileStats(ctx context.Context, handle string) (platform.ProfileStats, error) {
	if s.err != nil {
		return platform.ProfileStats{}, s.err
	}
	return s.stats, nil
}

// dayAgo returns the day key n days before today in the reference zone.
func dayAgo(n int) string {
	return time.Now().UTC().AddDate(0, 0, -n).Format(activity.DayKeyLayout)
}

func testRecordSubmission(t *testing.T) {
	resp := doRequest(t, "POST", "/api/submissions", map[string]interface{}{
		"challenge_id": 101,
	}, jwtToken)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	result := decodeBody(t, resp)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, dayAgo(0), data["day"])
	assert.EqualValues(t, 1, data["current_streak"])
	assert.EqualValues(t, 1, data["longest_streak"])
	assert.EqualValues(t, 1, data["total_solved"])
}

func testRecordSubmissionRequiresChallenge(t *testing.T) {
	resp := doRequest(t, "POST", "/api/submissions", map[string]interface{}{}, jwtToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func testHeatmap(t *testing.T) {
	resp := doRequest(t, "GET", "/api/activity/heatmap", nil, jwtToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeBody(t, resp)
	entries := result["data"].([]interface{})
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]interface{})
	assert.Equal(t, dayAgo(0), entry["day"])
	assert.EqualValues(t, 1, entry["count"])
}

func testStreakEndpoint(t *testing.T) {
	resp := doRequest(t, "GET", "/api/activity/streak", nil, jwtToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeBody(t, resp)
	data := result["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["current_streak"])
	assert.EqualValues(t, 1, data["longest_streak"])
}

func testLinkPlatform(t *testing.T) {
	resp := doRequest(t, "PUT", "/api/user/platforms", map[string]string{
		"platform": "leetcode",
		"handle":   "testuser_lc",
	}, jwtToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, "PUT", "/api/user/platforms", map[string]string{
		"platform": "unknownjudge",
		"handle":   "x",
	}, jwtToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, "GET", "/api/user/platforms", nil, jwtToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := decodeBody(t, resp)
	accounts := result["data"].([]interface{})
	require.Len(t, accounts, 1)
}

func testRefreshEndpoint(t *testing.T) {
	leetcode.history = []platform.DaySubmissions{
		{Day: dayAgo(2), Count: 3},
		{Day: dayAgo(1), Count: 1},
		{Day: dayAgo(0), Count: 2},
	}
	leetcode.stats = platform.ProfileStats{SolvedProblems: 120, Rating: 1800, Rank: "knight"}

	resp := doRequest(t, "POST", "/api/activity/refresh", nil, jwtToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeBody(t, resp)
	data := result["data"].(map[string]interface{})

	platforms := data["platforms"].([]interface{})
	require.Len(t, platforms, 1)
	pr := platforms[0].(map[string]interface{})
	assert.Equal(t, "leetcode", pr["platform"])
	assert.Equal(t, true, pr["ok"])
	assert.EqualValues(t, 3, pr["days_applied"])

	assert.EqualValues(t, 3, data["current_streak"])
	assert.EqualValues(t, 3, data["longest_streak"])
	// 1 app submission + 120 reported by the platform.
	assert.EqualValues(t, 121, data["total_solved"])

	// The app counter and the platform counter share today's record.
	resp = doRequest(t, "GET", "/api/activity/heatmap", nil, jwtToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	entries := decodeBody(t, resp)["data"].([]interface{})
	require.Len(t, entries, 3)
	today := entries[2].(map[string]interface{})
	assert.Equal(t, dayAgo(0), today["day"])
	assert.EqualValues(t, 3, today["count"])
}

func testTotalSolvedEndpoint(t *testing.T) {
	resp := doRequest(t, "GET", "/api/activity/solved", nil, jwtToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeBody(t, resp)
	data := result["data"].(map[string]interface{})
	assert.EqualValues(t, 121, data["total_solved"])
}
