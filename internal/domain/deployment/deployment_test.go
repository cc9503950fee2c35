package deployment

import (
	"strings"
	"testing"
)

func TestNewValidatesName(t *testing.T) {
	tests := []struct {
		name    string
		appName string
		wantErr bool
	}{
		{"simple name", "myapp", false},
		{"hyphenated name", "my-app", false},
		{"digits allowed", "app2", false},
		{"uppercase rejected", "MyApp", true},
		{"leading digit rejected", "2app", true},
		{"leading hyphen rejected", "-app", true},
		{"underscore rejected", "my_app", true},
		{"single char rejected", "a", true},
		{"empty rejected", "", true},
		{"too long rejected", strings.Repeat("a", 64), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.appName, "example.com")
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%q) error = %v, wantErr %v", tt.appName, err, tt.wantErr)
			}
		})
	}
}

func TestNewRequiresDomain(t *testing.T) {
	if _, err := New("myapp", "  "); err == nil {
		t.Error("expected error for empty domain")
	}
}

func TestDerivedResourceNames(t *testing.T) {
	dep, err := New("my-app", "example.com", WithWorkDir("/srv/my-app"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"unit name", dep.UnitName(), "my-app.service"},
		{"unit file", dep.UnitFilePath(), "/etc/systemd/system/my-app.service"},
		{"vhost available", dep.ProxyConfigPath(), "/etc/nginx/sites-available/my-app"},
		{"vhost enabled", dep.ProxyEnabledPath(), "/etc/nginx/sites-enabled/my-app"},
		{"socket", dep.SocketPath(), "/run/my-app/my-app.sock"},
		{"log dir", dep.LogDir(), "/var/log/my-app"},
		{"env file", dep.EnvFilePath(), "/srv/my-app/.env"},
		{"runtime config", dep.RuntimeConfigPath(), "/srv/my-app/gunicorn.conf.py"},
		{"url", dep.URL(), "http://example.com"},
		{"secure url", dep.SecureURL(), "https://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestDatabaseNamesDeriveFromAppName(t *testing.T) {
	dep, err := New("my-app", "example.com")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if dep.DatabaseName() != "my_app" {
		t.Errorf("DatabaseName() = %q, want %q", dep.DatabaseName(), "my_app")
	}
	if dep.DatabaseUser() != "my_app" {
		t.Errorf("DatabaseUser() = %q, want %q", dep.DatabaseUser(), "my_app")
	}
}

func TestWithDatabaseOverridesDerivedNames(t *testing.T) {
	dep, err := New("my-app", "example.com", WithDatabase("appdb", "appuser"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if dep.DatabaseName() != "appdb" || dep.DatabaseUser() != "appuser" {
		t.Errorf("got %q/%q, want appdb/appuser", dep.DatabaseName(), dep.DatabaseUser())
	}
}

func TestStaticDeploymentHasNoDatabase(t *testing.T) {
	dep, err := New("frontend", "app.example.com", AsStatic("/srv/frontend/dist"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !dep.Static() {
		t.Error("Static() = false, want true")
	}
	if dep.StaticRoot() != "/srv/frontend/dist" {
		t.Errorf("StaticRoot() = %q", dep.StaticRoot())
	}
	if dep.DatabaseName() != "" || dep.DatabaseUser() != "" {
		t.Errorf("static deployment has database %q/%q", dep.DatabaseName(), dep.DatabaseUser())
	}
}

func TestServerNamesIncludeAliases(t *testing.T) {
	dep, err := New("myapp", "example.com", WithAliases("www.example.com", "example.org"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	names := dep.ServerNames()
	want := []string{"example.com", "www.example.com", "example.org"}
	if len(names) != len(want) {
		t.Fatalf("ServerNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("ServerNames()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestFrontendLink(t *testing.T) {
	fe, err := New("frontend", "app.example.com", AsStatic("/srv/frontend/dist"))
	if err != nil {
		t.Fatalf("New frontend: %v", err)
	}
	dep, err := New("backend", "api.example.com", WithFrontend(fe))
	if err != nil {
		t.Fatalf("New backend: %v", err)
	}
	if dep.Frontend() != fe {
		t.Error("Frontend() did not return the linked deployment")
	}
}
