package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/PabloGalante/helper-kust/internal/domain"
)

func TestParseAssistanceMode(t *testing.T) {
	cases := map[string]domain.AssistanceMode{
		"help":   domain.ModeHelp,
		"SOLVE":  domain.ModeSolve,
		" Help ": domain.ModeHelp,
	}
	for in, want := range cases {
		if got, ok := domain.ParseAssistanceMode(in); !ok || got != want {
			t.Errorf("ParseAssistanceMode(%q) = %q, %v", in, got, ok)
		}
	}
	for _, in := range []string{"", "hint", "check_in"} {
		if _, ok := domain.ParseAssistanceMode(in); ok {
			t.Errorf("ParseAssistanceMode(%q) must fail", in)
		}
	}
}

func TestParseTaskStatus(t *testing.T) {
	cases := map[string]domain.TaskStatus{
		"pending":     domain.TaskStatusPending,
		"in-progress": domain.TaskStatusInProgress,
		"IN_PROGRESS": domain.TaskStatusInProgress,
		"Completed":   domain.TaskStatusCompleted,
	}
	for in, want := range cases {
		if got, ok := domain.ParseTaskStatus(in); !ok || got != want {
			t.Errorf("ParseTaskStatus(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := domain.ParseTaskStatus("done"); ok {
		t.Errorf("ParseTaskStatus(\"done\") must fail")
	}
}

func TestGatewayErrorKindOf(t *testing.T) {
	policy := &domain.GatewayError{Kind: domain.GatewayErrorPolicy, Err: errors.New("region")}

	cases := []struct {
		err  error
		want domain.GatewayErrorKind
	}{
		{policy, domain.GatewayErrorPolicy},
		{fmt.Errorf("calling: %w", policy), domain.GatewayErrorPolicy},
		{domain.ErrEmptyResponse, domain.GatewayErrorEmpty},
		{errors.New("reset by peer"), domain.GatewayErrorTransport},
	}
	for _, c := range cases {
		if got := domain.GatewayErrorKindOf(c.err); got != c.want {
			t.Errorf("GatewayErrorKindOf(%v) = %q, expected %q", c.err, got, c.want)
		}
	}

	if !errors.Is(policy, policy.Err) {
		t.Errorf("GatewayError must unwrap to its cause")
	}
}

func TestAttachmentPresent(t *testing.T) {
	var nilAtt *domain.Attachment
	if nilAtt.Present() {
		t.Errorf("nil attachment must not be present")
	}
	if (&domain.Attachment{}).Present() {
		t.Errorf("empty attachment must not be present")
	}
	if !(&domain.Attachment{MediaType: "image/png"}).Present() {
		t.Errorf("attachment with a media type must be present")
	}
}
