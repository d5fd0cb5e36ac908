package domain

import (
	"errors"
	"testing"
)

func TestPrivilege_AtLeast(t *testing.T) {
	cases := []struct {
		have Privilege
		min  Privilege
		want bool
	}{
		{PrivilegeProductOwner, PrivilegeProductOwner, true},
		{PrivilegeProductOwner, PrivilegeScrumMaster, true},
		{PrivilegeDeveloper, PrivilegeProductOwner, false},
		{PrivilegeDeveloper, PrivilegeDeveloper, true},
		{PrivilegeQualityAssurance, PrivilegeDeveloper, false},
		{PrivilegeQualityAssurance, PrivilegeQualityAssurance, true},
		{PrivilegeScrumMaster, PrivilegeQualityAssurance, false},
		{PrivilegeScrumMaster, PrivilegeScrumMaster, true},
		{Privilege("ADMIN"), PrivilegeScrumMaster, false},
	}

	for _, tc := range cases {
		if got := tc.have.AtLeast(tc.min); got != tc.want {
			t.Errorf("%s.AtLeast(%s): expected %v, got %v", tc.have, tc.min, tc.want, got)
		}
	}
}

func TestPrivilege_Valid(t *testing.T) {
	for _, p := range []Privilege{PrivilegeProductOwner, PrivilegeDeveloper, PrivilegeQualityAssurance, PrivilegeScrumMaster} {
		if !p.Valid() {
			t.Errorf("expected %s to be valid", p)
		}
	}
	if Privilege("product_owner").Valid() {
		t.Error("privileges are case sensitive")
	}
}

func TestDeriveStoryStatus(t *testing.T) {
	cases := []struct {
		name    string
		results []TestResult
		want    WorkStatus
	}{
		{"no test cases", nil, StatusNotStarted},
		{"all pass", []TestResult{ResultPass, ResultPass}, StatusDone},
		{"one failing", []TestResult{ResultPass, ResultFail}, StatusInProgress},
		{"not executed", []TestResult{ResultPass, ""}, StatusInProgress},
		{"blocked", []TestResult{ResultBlocked}, StatusInProgress},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var tcs []*TestCase
			for _, r := range tc.results {
				tcs = append(tcs, &TestCase{Result: r})
			}
			if got := DeriveStoryStatus(tcs); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestError_MatchesKindAndSentinel(t *testing.T) {
	err := error(ErrEpicAlreadyLinked)

	if !errors.Is(err, ErrConflict) {
		t.Error("expected epic already linked to be a conflict")
	}
	if !errors.Is(err, ErrEpicAlreadyLinked) {
		t.Error("expected sentinel to match itself")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("epic already linked must not be a not found")
	}
	if err.Error() != "epic is already linked to a sprint backlog" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
