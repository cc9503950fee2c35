package deployment

import "testing"

func TestNewDescriptor(t *testing.T) {
	tests := []struct {
		name       string
		kind       Kind
		identifier string
		wantErr    bool
	}{
		{"valid package", KindPackage, "nginx", false},
		{"valid database", KindDatabase, "my_app", false},
		{"unknown kind", Kind("virtual-machine"), "vm1", true},
		{"empty identifier", KindPackage, "  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDescriptor(tt.kind, tt.identifier, "")
			if (err != nil) != tt.wantErr {
				t.Errorf("NewDescriptor(%q, %q) error = %v, wantErr %v", tt.kind, tt.identifier, err, tt.wantErr)
			}
		})
	}
}

func TestDescriptorString(t *testing.T) {
	d := MustNewDescriptor(KindServiceUnit, "myapp.service", "/etc/systemd/system/myapp.service")
	if got := d.String(); got != "service-unit:myapp.service" {
		t.Errorf("String() = %q", got)
	}
}

func TestDescriptorIsZero(t *testing.T) {
	var zero Descriptor
	if !zero.IsZero() {
		t.Error("zero descriptor reported non-zero")
	}
	d := MustNewDescriptor(KindPackage, "nginx", "")
	if d.IsZero() {
		t.Error("populated descriptor reported zero")
	}
}

func TestMustNewDescriptorPanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid kind")
		}
	}()
	MustNewDescriptor(Kind("bogus"), "x", "")
}
