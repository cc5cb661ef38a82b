package model

import "testing"

func TestIsTerminal(t *testing.T) {
	cases := []struct {
		status   AttemptStatus
		terminal bool
	}{
		{AttemptStatusOngoing, false},
		{AttemptStatusSubmitted, true},
		{AttemptStatusAutoSubmitted, true},
		{AttemptStatusAbandoned, true},
		{AttemptStatusEvaluated, true},
	}

	for _, tc := range cases {
		if got := tc.status.IsTerminal(); got != tc.terminal {
			t.Errorf("IsTerminal(%s) = %v, want %v", tc.status, got, tc.terminal)
		}
	}
}

func TestStatusForReason(t *testing.T) {
	cases := []struct {
		reason SubmitReason
		status AttemptStatus
		ok     bool
	}{
		{SubmitReasonManual, AttemptStatusSubmitted, true},
		{SubmitReasonTimeExpired, AttemptStatusAutoSubmitted, true},
		{SubmitReasonIntegrityViolation, AttemptStatusAutoSubmitted, true},
		{SubmitReason("proctor_whim"), "", false},
		{SubmitReason(""), "", false},
	}

	for _, tc := range cases {
		status, ok := StatusForReason(tc.reason)
		if status != tc.status || ok != tc.ok {
			t.Errorf("StatusForReason(%q) = (%s, %v), want (%s, %v)", tc.reason, status, ok, tc.status, tc.ok)
		}
	}
}

func TestSeverityIsSevere(t *testing.T) {
	severe := []Severity{SeverityHigh, SeverityCritical}
	for _, s := range severe {
		if !s.IsSevere() {
			t.Errorf("IsSevere(%s) = false, want true", s)
		}
	}
	mild := []Severity{SeverityLow, SeverityMedium}
	for _, s := range mild {
		if s.IsSevere() {
			t.Errorf("IsSevere(%s) = true, want false", s)
		}
	}
}
