package db

import (
	"strings"
	"testing"
)

func TestBuildProjectWhere_DefaultsToActive(t *testing.T) {
	where, args := buildProjectWhere(ProjectFilter{})

	if !strings.Contains(where, "status = $1") {
		t.Fatalf("expected status constraint, got %s", where)
	}
	if len(args) != 1 || args[0] != "active" {
		t.Fatalf("expected [active], got %v", args)
	}
}

func TestBuildProjectWhere_AllDisablesStatusFilter(t *testing.T) {
	where, args := buildProjectWhere(ProjectFilter{Status: "all"})

	if strings.Contains(where, "status") {
		t.Fatalf("status filter should be disabled: %s", where)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
}

func TestBuildProjectWhere_PlaceholdersMatchArgs(t *testing.T) {
	where, args := buildProjectWhere(ProjectFilter{
		Query:       "react",
		Platform:    "upwork",
		RiskLevel:   "low",
		MinNexScore: 80,
	})

	// status + query + platform + risk + nex_score
	if len(args) != 5 {
		t.Fatalf("expected 5 args, got %d: %v", len(args), args)
	}
	for _, token := range []string{"$1", "$2", "$3", "$4", "$5"} {
		if !strings.Contains(where, token) {
			t.Errorf("clause missing placeholder %s: %s", token, where)
		}
	}
	if !strings.Contains(where, "nex_score >= $5") {
		t.Errorf("nex score constraint misplaced: %s", where)
	}
}

func TestBuildProjectWhere_ZeroMinScoreIsUnconstrained(t *testing.T) {
	where, _ := buildProjectWhere(ProjectFilter{MinNexScore: 0})
	if strings.Contains(where, "nex_score") {
		t.Fatalf("zero min score must not constrain: %s", where)
	}
}
