package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Scope
	}{
		{"superuser literal", "superuser", Scope{Kind: KindSuperuser}},
		{"facility regular", "first:regular", Scope{Kind: KindFacility, Facility: "first", Role: RoleRegular}},
		{"facility admin", "second:admin", Scope{Kind: KindFacility, Facility: "second", Role: RoleAdmin}},
		{"empty", "", Scope{Kind: KindInvalid}},
		{"no colon", "first", Scope{Kind: KindInvalid}},
		{"unknown role", "first:owner", Scope{Kind: KindInvalid}},
		{"empty facility", ":regular", Scope{Kind: KindInvalid}},
		{"empty role", "first:", Scope{Kind: KindInvalid}},
		{"reserved facility token", "superuser:admin", Scope{Kind: KindInvalid}},
		{"extra colon lands in role", "first:regular:extra", Scope{Kind: KindInvalid}},
		{"case sensitive role", "first:Admin", Scope{Kind: KindInvalid}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseScope(tt.in))
		})
	}
}

func TestRequirementSatisfiedBy(t *testing.T) {
	tests := []struct {
		name  string
		req   Requirement
		scope string
		want  bool
	}{
		{"none always passes", None(), "garbage", true},
		{"any passes valid scope", Any(), "first:regular", true},
		{"any passes malformed scope", Any(), "not-a-scope", true},

		{"regular on own facility", RegularOn("first"), "first:regular", true},
		{"admin covers regular on same facility", RegularOn("first"), "first:admin", true},
		{"regular fails other facility", RegularOn("second"), "first:regular", false},
		{"admin does not cross facilities", RegularOn("second"), "first:admin", false},

		{"admin on own facility", AdminOn("first"), "first:admin", true},
		{"regular does not satisfy admin", AdminOn("first"), "first:regular", false},
		{"admin fails other facility", AdminOn("second"), "first:admin", false},

		{"superuser satisfies regular", RegularOn("first"), "superuser", true},
		{"superuser satisfies admin", AdminOn("second"), "superuser", true},
		{"superuser satisfies superuser", SuperOnly(), "superuser", true},
		{"facility admin fails superuser", SuperOnly(), "first:admin", false},

		{"malformed fails regular", RegularOn("first"), "first", false},
		{"malformed fails admin", AdminOn("first"), "", false},
		{"malformed fails superuser", SuperOnly(), "first:owner", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.SatisfiedBy(tt.scope))
		})
	}
}

func TestNarrows(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		owned     string
		want      bool
	}{
		{"identical facility scope", "first:regular", "first:regular", true},
		{"admin narrows to regular", "first:regular", "first:admin", true},
		{"regular cannot widen to admin", "first:admin", "first:regular", false},
		{"cross facility rejected", "second:regular", "first:admin", false},
		{"superuser owner grants anything valid", "first:admin", "superuser", true},
		{"superuser owner keeps superuser", "superuser", "superuser", true},
		{"facility owner cannot request superuser", "superuser", "first:admin", false},
		{"malformed request rejected", "first", "superuser", false},
		{"malformed owner grants nothing", "first:regular", "bogus", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Narrows(tt.requested, tt.owned))
		})
	}
}
