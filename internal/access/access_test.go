package access

import (
	"errors"
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	c := New(100, 200, 300, 100)

	cases := []struct {
		name string
		id   int64
		want Role
	}{
		{name: "superadmin", id: 100, want: RoleSuperadmin},
		{name: "seeded admin", id: 200, want: RoleAdmin},
		{name: "stranger", id: 999, want: RoleNone},
		{name: "zero id", id: 0, want: RoleNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.Classify(tc.id); got != tc.want {
				t.Fatalf("Classify(%d) = %s, want %s", tc.id, got, tc.want)
			}
		})
	}

	if got := c.Admins(); !reflect.DeepEqual(got, []int64{200, 300}) {
		t.Fatalf("Admins() = %v, superadmin must not be stored", got)
	}
}

func TestRequire(t *testing.T) {
	c := New(1, 2)
	if err := c.Require(1); err != nil {
		t.Fatalf("superadmin rejected: %v", err)
	}
	if err := c.Require(2); err != nil {
		t.Fatalf("admin rejected: %v", err)
	}
	if err := c.Require(3); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("stranger err = %v, want ErrPermissionDenied", err)
	}
}

func TestGrantOnlyBySuperadmin(t *testing.T) {
	c := New(1, 2)

	for _, requester := range []int64{2, 3, 0} {
		added, err := c.Grant(requester, 42)
		if !errors.Is(err, ErrPermissionDenied) || added {
			t.Fatalf("Grant by %d = %v, %v; want denied", requester, added, err)
		}
	}
	if c.Classify(42) != RoleNone {
		t.Fatal("admin set grew after denied grants")
	}

	added, err := c.Grant(1, 42)
	if err != nil || !added {
		t.Fatalf("Grant by superadmin = %v, %v", added, err)
	}
	if c.Classify(42) != RoleAdmin {
		t.Fatal("42 should be admin")
	}

	added, err = c.Grant(1, 42)
	if err != nil || added {
		t.Fatalf("repeat Grant = %v, %v; want idempotent", added, err)
	}
	if got := c.Admins(); !reflect.DeepEqual(got, []int64{2, 42}) {
		t.Fatalf("Admins() = %v", got)
	}
}

func TestGrantedAdminCannotGrant(t *testing.T) {
	c := New(1)
	if _, err := c.Grant(1, 5); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if _, err := c.Grant(5, 6); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("admin grant err = %v, want ErrPermissionDenied", err)
	}
	if c.Classify(6) != RoleNone {
		t.Fatal("admin set grew via non-superadmin")
	}
}
