package mailfrom

import (
	"context"
	"testing"

	"quantwp/pkg/envsource"
	"quantwp/pkg/hooks"
)

func TestFilters(t *testing.T) {
	c := Config{Address: "noreply@example.com", Name: "Example Site"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"default address replaced", c.FilterAddress("wordpress@example.com"), "noreply@example.com"},
		{"custom address kept", c.FilterAddress("editor@example.com"), "editor@example.com"},
		{"default name replaced", c.FilterName("WordPress"), "Example Site"},
		{"custom name kept", c.FilterName("Editor"), "Editor"},
		{"unset address passes through", Config{}.FilterAddress("wordpress@example.com"), "wordpress@example.com"},
		{"unset name passes through", Config{}.FilterName("WordPress"), "WordPress"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestRegisterOnlyConfiguredFilters(t *testing.T) {
	c := FromEnv(envsource.FromMap(map[string]string{EnvFrom: "noreply@example.com", EnvFromName: ""}))
	reg := hooks.NewRegistry()
	Register(reg, c)

	if !reg.HasFilter(hooks.FilterMailFrom) {
		t.Error("address filter should be registered")
	}
	if reg.HasFilter(hooks.FilterMailFromName) {
		t.Error("name filter should not be registered for an empty value")
	}
	got := reg.ApplyFilters(context.Background(), hooks.FilterMailFrom, "wordpress@internal")
	if got != "noreply@example.com" {
		t.Errorf("ApplyFilters() = %q", got)
	}
}
