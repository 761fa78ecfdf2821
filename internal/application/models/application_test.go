package models

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type StatusMachineSuite struct {
	suite.Suite
}

func TestStatusMachineSuite(t *testing.T) {
	suite.Run(t, new(StatusMachineSuite))
}

// TestShelterTransitions verifies the full transition table.
func (s *StatusMachineSuite) TestShelterTransitions() {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusReviewing, true},
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusWithdrawn, false},
		{StatusReviewing, StatusApproved, true},
		{StatusReviewing, StatusRejected, true},
		{StatusReviewing, StatusPending, false},
		{StatusReviewing, StatusWithdrawn, false},
		{StatusApproved, StatusReviewing, false},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusPending, false},
		{StatusWithdrawn, StatusReviewing, false},
		{StatusPending, StatusPending, false},
	}
	for _, tc := range cases {
		s.Equal(tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

// TestActiveAndTerminal verifies the active set and terminal statuses.
func (s *StatusMachineSuite) TestActiveAndTerminal() {
	s.True(StatusPending.IsActive())
	s.True(StatusReviewing.IsActive())
	s.True(StatusApproved.IsActive())
	s.False(StatusRejected.IsActive())
	s.False(StatusWithdrawn.IsActive())

	s.True(StatusApproved.IsTerminal())
	s.True(StatusRejected.IsTerminal())
	s.True(StatusWithdrawn.IsTerminal())
	s.False(StatusPending.IsTerminal())
	s.False(StatusReviewing.IsTerminal())
}

// TestWithdrawal verifies only unsettled applications may be withdrawn.
func (s *StatusMachineSuite) TestWithdrawal() {
	for _, tc := range []struct {
		status Status
		ok     bool
	}{
		{StatusPending, true},
		{StatusReviewing, true},
		{StatusApproved, false},
		{StatusRejected, false},
		{StatusWithdrawn, false},
	} {
		app := &Application{Status: tc.status}
		s.Equal(tc.ok, app.CanWithdraw(), "withdraw from %s", tc.status)
	}
}

// TestParseStatus verifies external status strings are validated.
func (s *StatusMachineSuite) TestParseStatus() {
	for _, valid := range []string{"pending", "reviewing", "approved", "rejected", "withdrawn"} {
		parsed, err := ParseStatus(valid)
		s.Require().NoError(err)
		s.Equal(Status(valid), parsed)
	}

	_, err := ParseStatus("archived")
	s.Require().Error(err)
}
