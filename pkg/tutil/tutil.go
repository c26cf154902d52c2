package tutil

import (
	"os"
	"strings"
)

// IsIntegrationTest reports whether the test run should hit real external
// services (mysql) instead of the in-memory sqlite database.
func IsIntegrationTest() bool {
	testType := os.Getenv("CFS_TEST")
	return strings.ToLower(testType) == "integration"
}
