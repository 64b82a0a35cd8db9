package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeadDisplayName(t *testing.T) {
	cases := []struct {
		name string
		lead Lead
		want string
	}{
		{"full name wins", Lead{LeadID: "L1", FullName: "Ryan Beuglet", FirstName: "Other"}, "Ryan Beuglet"},
		{"first and last", Lead{LeadID: "L1", FirstName: "Ryan", LastName: "Beuglet"}, "Ryan Beuglet"},
		{"first only", Lead{LeadID: "L1", FirstName: "Ryan"}, "Ryan"},
		{"last only", Lead{LeadID: "L1", LastName: "Beuglet"}, "Beuglet"},
		{"email fallback", Lead{LeadID: "L1", Email: "ryan@example.com"}, "ryan@example.com"},
		{"lead id as last resort", Lead{LeadID: "L1"}, "L1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.lead.DisplayName())
		})
	}
}
