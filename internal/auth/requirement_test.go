package auth

import (
	"testing"

	"advicehub/internal/model"
)

func TestRequirementCheck(t *testing.T) {
	user := &Principal{UserID: 1, Roles: []string{"USER"}}
	admin := &Principal{UserID: 2, Roles: []string{"USER", "ADMIN"}}

	cases := []struct {
		name string
		req  Requirement
		p    *Principal
		want error
	}{
		{"public no principal", Public(), nil, nil},
		{"public with principal", Public(), user, nil},
		{"any auth missing principal", AnyAuthenticated(), nil, ErrUnauthenticated},
		{"any auth with principal", AnyAuthenticated(), user, nil},
		{"role missing principal", RequireRoles(model.RoleAdmin), nil, ErrUnauthenticated},
		{"role insufficient", RequireRoles(model.RoleAdmin), user, ErrForbidden},
		{"role satisfied", RequireRoles(model.RoleAdmin), admin, nil},
		{"any of several roles", RequireRoles(model.RoleAdmin, model.RoleUser), user, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.req.Check(tc.p); got != tc.want {
				t.Errorf("Check = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCheckOwnerOr(t *testing.T) {
	owner := &Principal{UserID: 10, Roles: []string{"USER"}}
	admin := &Principal{UserID: 11, Roles: []string{"USER", "ADMIN"}}
	other := &Principal{UserID: 12, Roles: []string{"USER"}}

	if err := CheckOwnerOr(nil, 10, model.RoleAdmin); err != ErrUnauthenticated {
		t.Errorf("nil principal = %v, want ErrUnauthenticated", err)
	}
	if err := CheckOwnerOr(owner, 10, model.RoleAdmin); err != nil {
		t.Errorf("owner = %v, want nil", err)
	}
	if err := CheckOwnerOr(admin, 10, model.RoleAdmin); err != nil {
		t.Errorf("admin = %v, want nil", err)
	}
	if err := CheckOwnerOr(other, 10, model.RoleAdmin); err != ErrForbidden {
		t.Errorf("non-owner non-admin = %v, want ErrForbidden", err)
	}
}
